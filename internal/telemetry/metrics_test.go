package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_NoopProvider(t *testing.T) {
	m, err := InitMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NotPanics(t, func() {
		m.RecordRequest("GET", "/health", "success", 0.01)
		m.RecordUpload(context.Background(), "stored", 1024, 0.2)
		m.RecordEmail(context.Background(), false)
		m.RecordDatabaseOperation("insert", "media", true)
	})
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordUpload(context.Background(), "failed", 0, 0)
		m.RecordEmail(context.Background(), true)
	})
}
