// Package metrics exposes Prometheus counters for the render loop and the
// fact service.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orrery"

// Collector owns a private registry. A nil *Collector is valid and records
// nothing.
type Collector struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	framesTotal   prometheus.Counter
	factRequests  *prometheus.CounterVec
	factsDropped  prometheus.Counter
	zoom          prometheus.Gauge
	simSpeed      prometheus.Gauge
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent rendering one frame",
			Buckets:   []float64{.001, .0025, .005, .01, .02, .033, .05, .1, .25},
		}),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of rendered frames",
		}),
		factRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fact_requests_total",
			Help:      "Fact requests by outcome",
		}, []string{"outcome"}),
		factsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facts_stale_total",
			Help:      "Fact responses dropped because the selection changed",
		}),
		zoom: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "camera_zoom",
			Help:      "Current camera zoom factor",
		}),
		simSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_speed",
			Help:      "Current simulation speed multiplier",
		}),
	}

	m.registry.MustRegister(
		m.frameDuration,
		m.framesTotal,
		m.factRequests,
		m.factsDropped,
		m.zoom,
		m.simSpeed,
	)
	return m
}

// RecordFrame records one rendered frame.
func (m *Collector) RecordFrame(d time.Duration, zoom, speed float64) {
	if m == nil {
		return
	}
	m.frameDuration.Observe(d.Seconds())
	m.framesTotal.Inc()
	m.zoom.Set(zoom)
	m.simSpeed.Set(speed)
}

// RecordFact counts a fact request with the given outcome label.
func (m *Collector) RecordFact(outcome string) {
	if m == nil {
		return
	}
	m.factRequests.WithLabelValues(outcome).Inc()
}

// RecordStaleFact counts a fact response that arrived for an old selection.
func (m *Collector) RecordStaleFact() {
	if m == nil {
		return
	}
	m.factsDropped.Inc()
}

// Registry returns the underlying registry.
func (m *Collector) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	}
}
