package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewWithRegistry("salon-test", prometheus.NewRegistry())

	m.IncReservationCreated("peluqueria")
	m.IncReservationCreated("peluqueria")
	m.IncConflict("client")
	m.IncTransition("accept", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("peluqueria")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConflictsDetected.WithLabelValues("client")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LifecycleTransitions.WithLabelValues("accept", "ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncReservationCreated("estetica")
		m.IncConflict("worker")
		m.IncTransition("cancel", "error")
	})
}
