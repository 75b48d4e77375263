package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
[database]
host = "db"
dbname = "salon"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, "flexible", cfg.Cancellation.DefaultPolicy)
	assert.Equal(t, 72, cfg.Cancellation.Strict.ThresholdHours)
	assert.Equal(t, 50.0, cfg.Cancellation.Strict.Percent)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "host=db port=5432 user= password= dbname=salon sslmode=disable", cfg.Database.DSN())
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
[booking]
timezone = "Europe/Madrid"
slot_step_minutes = 15
advance_booking_days = 30

[kafka]
enabled = true
brokers = ["k1:9092"]
topic = "events"
`))
	require.NoError(t, err)

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
	assert.Equal(t, 15, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 30, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALON_DB_HOST", "pg.internal")
	t.Setenv("SALON_HTTP_PORT", "9090")
	t.Setenv("SALON_KAFKA_ENABLED", "true")
	t.Setenv("SALON_KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SALON_HTTP_PORT", "abc")

	_, err := Load(writeConfig(t, minimal))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALON_HTTP_PORT")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
		{name: "no database", mutate: func(c *Config) { c.Database.DBName = "" }},
		{name: "unknown timezone", mutate: func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
		{name: "zero slot step", mutate: func(c *Config) { c.Booking.SlotStepMinutes = 0 }},
		{name: "negative advance days", mutate: func(c *Config) { c.Booking.AdvanceBookingDays = -1 }},
		{name: "unknown policy", mutate: func(c *Config) { c.Cancellation.DefaultPolicy = "lenient" }},
		{name: "percent above 100", mutate: func(c *Config) { c.Cancellation.Moderate.Percent = 120 }},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Database.DBName = "salon"
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_SpanishPolicyAlias(t *testing.T) {
	cfg := defaults()
	cfg.Database.DBName = "salon"
	cfg.Cancellation.DefaultPolicy = "estricta"
	assert.NoError(t, cfg.Validate())
}
