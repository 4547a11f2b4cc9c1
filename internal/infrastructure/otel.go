package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	ServiceName = "kabucli"
	MeterName   = "kabucli"
)

// Metrics holds the meter provider, the application meter and the Prometheus
// scrape handler.
type Metrics struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	ParsesTotal         metric.Int64Counter
	ParseDuration       metric.Float64Histogram
}

// InitializeMetrics sets up OpenTelemetry metrics backed by a Prometheus
// exporter and registers the application instruments.
func InitializeMetrics(version string, logger *slog.Logger) (*Metrics, error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	m := &Metrics{
		MeterProvider:  mp,
		Meter:          mp.Meter(MeterName, metric.WithInstrumentationVersion(version)),
		PrometheusHTTP: promhttp.Handler(),
	}

	if m.HTTPRequestsTotal, err = m.Meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = m.Meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.ParsesTotal, err = m.Meter.Int64Counter(
		"portfolio_parses_total",
		metric.WithDescription("Total number of portfolio parse attempts"),
	); err != nil {
		return nil, err
	}

	if m.ParseDuration, err = m.Meter.Float64Histogram(
		"portfolio_parse_duration_seconds",
		metric.WithDescription("Portfolio parse duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "metrics initialized",
		slog.String("exporter", "prometheus"))

	return m, nil
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordParse records one portfolio parse attempt.
func (m *Metrics) RecordParse(ctx context.Context, template string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("template", template),
		attribute.Bool("success", success),
	)
	m.ParsesTotal.Add(ctx, 1, attrs)
	m.ParseDuration.Record(ctx, duration.Seconds(), attrs)
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.MeterProvider == nil {
		return nil
	}
	return m.MeterProvider.Shutdown(ctx)
}
