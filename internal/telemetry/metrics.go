package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ppsg-cms"

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	MediaUploads       metric.Int64Counter
	DerivationDuration metric.Float64Histogram
	RenditionBytes     metric.Int64Histogram
	EmailSends         metric.Int64Counter
	DatabaseOperations metric.Int64Counter
}

// InitMetrics initializes all application metrics against the global meter provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	mediaUploads, err := meter.Int64Counter(
		"media.uploads.total",
		metric.WithDescription("Uploaded media files by outcome"),
	)
	if err != nil {
		return nil, err
	}

	derivationDuration, err := meter.Float64Histogram(
		"media.derivation.duration",
		metric.WithDescription("Rendition derivation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	renditionBytes, err := meter.Int64Histogram(
		"media.renditions.bytes",
		metric.WithDescription("Aggregate rendition payload per upload"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	emailSends, err := meter.Int64Counter(
		"email.sends.total",
		metric.WithDescription("Contact notification emails by outcome"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:     requestCounter,
		RequestDuration:    requestDuration,
		MediaUploads:       mediaUploads,
		DerivationDuration: derivationDuration,
		RenditionBytes:     renditionBytes,
		EmailSends:         emailSends,
		DatabaseOperations: databaseOperations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordUpload records one media file outcome and, on success, its stored payload size.
func (m *Metrics) RecordUpload(ctx context.Context, outcome string, payloadBytes int64, derivationSeconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("media.outcome", outcome))
	m.MediaUploads.Add(ctx, 1, attrs)
	m.DerivationDuration.Record(ctx, derivationSeconds, attrs)
	if payloadBytes > 0 {
		m.RenditionBytes.Record(ctx, payloadBytes)
	}
}

// RecordEmail records a contact notification attempt.
func (m *Metrics) RecordEmail(ctx context.Context, sent bool) {
	if m == nil {
		return
	}
	m.EmailSends.Add(ctx, 1, metric.WithAttributes(attribute.Bool("email.sent", sent)))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(operation, collection string, success bool) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	}

	m.DatabaseOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
