package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Config конфигурация сервиса бронирования салона
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Booking      BookingConfig      `toml:"booking"`
	Cancellation CancellationConfig `toml:"cancellation"`
	Redis        RedisConfig        `toml:"redis"`
	Kafka        KafkaConfig        `toml:"kafka"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	SlotStepMinutes    int    `toml:"slot_step_minutes"`
	AdvanceBookingDays int    `toml:"advance_booking_days"` // 0 - без ограничения
}

// Location часовой пояс салона
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

type PolicyPenaltyConfig struct {
	ThresholdHours int     `toml:"threshold_hours"`
	Percent        float64 `toml:"percent"`
}

type CancellationConfig struct {
	DefaultPolicy    string              `toml:"default_policy"`
	PenaltiesEnabled bool                `toml:"penalties_enabled"`
	Flexible         PolicyPenaltyConfig `toml:"flexible"`
	Moderate         PolicyPenaltyConfig `toml:"moderate"`
	Strict           PolicyPenaltyConfig `toml:"strict"`
}

type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	LockTTLMs       int    `toml:"lock_ttl_ms"`
	RetryIntervalMs int    `toml:"retry_interval_ms"`
	KeyPrefix       string `toml:"key_prefix"`
}

type KafkaConfig struct {
	Enabled        bool     `toml:"enabled"`
	Brokers        []string `toml:"brokers"`
	Topic          string   `toml:"topic"`
	WriteTimeoutMs int      `toml:"write_timeout_ms"`
}

// Load читает config.toml, затем .env (если есть) и переменные окружения SALON_*
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			ServiceName: "salonbooking",
			Path:        "/metrics",
		},
		Booking: BookingConfig{
			Timezone:        "UTC",
			SlotStepMinutes: domain.DefaultSlotStepMinutes,
		},
		Cancellation: CancellationConfig{
			DefaultPolicy: string(domain.PolicyFlexible),
			Flexible:      PolicyPenaltyConfig{ThresholdHours: 24, Percent: 10},
			Moderate:      PolicyPenaltyConfig{ThresholdHours: 48, Percent: 25},
			Strict:        PolicyPenaltyConfig{ThresholdHours: 72, Percent: 50},
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			LockTTLMs:       10000,
			RetryIntervalMs: 25,
			KeyPrefix:       "salon:lock",
		},
		Kafka: KafkaConfig{
			Topic:          "salon.reservations",
			WriteTimeoutMs: 2000,
		},
	}
}

// applyEnv переопределяет значения из переменных окружения
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	setBool := func(key string, dst *bool) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	setString("SALON_DB_HOST", &cfg.Database.Host)
	setString("SALON_DB_USER", &cfg.Database.User)
	setString("SALON_DB_PASSWORD", &cfg.Database.Password)
	setString("SALON_DB_NAME", &cfg.Database.DBName)
	setString("SALON_LOG_LEVEL", &cfg.Logs.Level)
	setString("SALON_TIMEZONE", &cfg.Booking.Timezone)
	setString("SALON_REDIS_ADDR", &cfg.Redis.Addr)
	setString("SALON_REDIS_PASSWORD", &cfg.Redis.Password)
	setString("SALON_KAFKA_TOPIC", &cfg.Kafka.Topic)

	if v, ok := os.LookupEnv("SALON_KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = events.SplitBrokers(v)
	}

	for key, dst := range map[string]*int{
		"SALON_HTTP_PORT": &cfg.Server.HTTPPort,
		"SALON_DB_PORT":   &cfg.Database.Port,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"SALON_REDIS_ENABLED": &cfg.Redis.Enabled,
		"SALON_KAFKA_ENABLED": &cfg.Kafka.Enabled,
	} {
		if err := setBool(key, dst); err != nil {
			return err
		}
	}

	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database.host and database.dbname are required")
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("booking.timezone: %w", err)
	}
	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > types.MinutesPerDay {
		return fmt.Errorf("booking.slot_step_minutes must be in 1..%d, got %d", types.MinutesPerDay, c.Booking.SlotStepMinutes)
	}
	if c.Booking.AdvanceBookingDays < 0 {
		return errors.New("booking.advance_booking_days must not be negative")
	}
	if _, err := domain.ParseCancellationPolicy(c.Cancellation.DefaultPolicy); err != nil {
		return fmt.Errorf("cancellation.default_policy: %w", err)
	}
	for name, p := range map[string]PolicyPenaltyConfig{
		"flexible": c.Cancellation.Flexible,
		"moderate": c.Cancellation.Moderate,
		"strict":   c.Cancellation.Strict,
	} {
		if p.ThresholdHours < 0 || p.Percent < 0 || p.Percent > 100 {
			return fmt.Errorf("cancellation.%s: threshold must be >= 0 and percent in 0..100", name)
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	return nil
}
