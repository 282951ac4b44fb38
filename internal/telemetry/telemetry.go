// Package telemetry records probe and dashboard metrics with OpenTelemetry and
// exposes them in Prometheus format.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/logger"
	"github.com/rileyhilliard/infradash/internal/probe"
)

const meterName = "github.com/rileyhilliard/infradash"

// Metrics implements probe.Observer and dashboard.Observer.
type Metrics struct {
	registry *promclient.Registry
	provider *sdkmetric.MeterProvider
	log      logger.Logger

	probeRuns     metric.Int64Counter
	probeDuration metric.Float64Histogram
	viewLoads     metric.Int64Counter
	loadDuration  metric.Float64Histogram
}

var (
	_ probe.Observer     = (*Metrics)(nil)
	_ dashboard.Observer = (*Metrics)(nil)
)

// New creates a meter provider backed by its own Prometheus registry.
func New(log logger.Logger) (*Metrics, error) {
	if log == nil {
		log = logger.Noop()
	}
	reg := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	m := &Metrics{registry: reg, provider: provider, log: log}

	if m.probeRuns, err = meter.Int64Counter("infradash.probe.runs",
		metric.WithDescription("Connection checks by outcome")); err != nil {
		return nil, err
	}
	if m.probeDuration, err = meter.Float64Histogram("infradash.probe.duration",
		metric.WithDescription("Connection check duration"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.viewLoads, err = meter.Int64Counter("infradash.view.loads",
		metric.WithDescription("Dashboard view loads by view and result")); err != nil {
		return nil, err
	}
	if m.loadDuration, err = meter.Float64Histogram("infradash.view.load.duration",
		metric.WithDescription("Dashboard view load duration"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return m, nil
}

// Provider returns the meter provider so other instrumentation (the HTTP
// client transport) can report into the same registry.
func (m *Metrics) Provider() metric.MeterProvider {
	return m.provider
}

// ProbeFinished records a terminal connection check.
func (m *Metrics) ProbeFinished(c probe.Check) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("outcome", c.Status.String()),
		attribute.String("reason", c.Reason.String()),
	)
	m.probeRuns.Add(ctx, 1, attrs)
	m.probeDuration.Record(ctx, c.Duration().Seconds(), attrs)
}

// ViewLoaded records a completed dashboard load.
func (m *Metrics) ViewLoaded(v dashboard.View, d time.Duration, err error) {
	ctx := context.Background()
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.viewLoads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("view", v.String()),
		attribute.String("result", result),
	))
	m.loadDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("view", v.String())))
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return m.serve(ctx, ln)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		m.log.Info("metrics server listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
