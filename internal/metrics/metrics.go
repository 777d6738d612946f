// Package metrics exposes OpenTelemetry instruments through a Prometheus
// scrape endpoint on the diagnostics listener.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Article engagement events.
const (
	EventView    = "view"
	EventLike    = "like"
	EventComment = "comment"
	EventCreate  = "create"
	EventUpdate  = "update"
	EventDelete  = "delete"
)

var eventKey = attribute.Key("news.event")

type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	completed metric.Int64Counter
	duration  metric.Float64Histogram
	events    metric.Int64Counter
}

// New registers the exporter on reg and creates the instruments.
func New(serviceName string, reg *prometheus.Registry) (*Metrics, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	m := &Metrics{
		provider: provider,
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	if m.completed, err = meter.Int64Counter(
		"http.server.completed_count",
		metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("Request handling time"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.events, err = meter.Int64Counter(
		"news.events",
		metric.WithDescription("Article mutations and engagement events, by kind"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Middleware counts and times every request by its chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		)
		m.completed.Add(r.Context(), 1, attrs)
		m.duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
	})
}

// Event counts one article event. A nil receiver records nothing.
func (m *Metrics) Event(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.events.Add(ctx, 1, metric.WithAttributes(eventKey.String(event)))
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
