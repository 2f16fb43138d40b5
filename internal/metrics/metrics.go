// Package metrics tracks runtime statistics of a netswitch process:
// external commands issued, mode transitions, and degraded status fields.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "netswitch"

// Collector owns a private Prometheus registry so that several
// collectors (one per test, say) never collide on registration.
type Collector struct {
	registry        *prometheus.Registry
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	degraded        *prometheus.CounterVec
	breakerOpen     prometheus.Gauge
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "External commands issued, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time of external commands.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Mode transitions, by target mode and outcome.",
		}, []string{"mode", "outcome"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_degraded_total",
			Help:      "Status queries whose field could not be determined.",
		}, []string{"field"}),
		breakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_breaker_open",
			Help:      "1 while the status query circuit breaker is open.",
		}),
	}
	c.registry.MustRegister(c.commands, c.commandDuration, c.transitions, c.degraded, c.breakerOpen)
	return c
}

// ── Commands ─────────────────────────────────────────────────────────

// CommandFinished records one external command.
func (c *Collector) CommandFinished(kind string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.commands.WithLabelValues(kind, outcome(err)).Inc()
	c.commandDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Commands exposes the command counter for inspection.
func (c *Collector) Commands() *prometheus.CounterVec {
	if c == nil {
		return nil
	}
	return c.commands
}

// ── Transitions ──────────────────────────────────────────────────────

// TransitionFinished records the outcome of a mode switch.
func (c *Collector) TransitionFinished(mode string, err error) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(mode, outcome(err)).Inc()
}

// Transitions exposes the transition counter for inspection.
func (c *Collector) Transitions() *prometheus.CounterVec {
	if c == nil {
		return nil
	}
	return c.transitions
}

// ── Status ───────────────────────────────────────────────────────────

// StatusDegraded records a status field that fell back to its default.
func (c *Collector) StatusDegraded(field string) {
	if c == nil {
		return
	}
	c.degraded.WithLabelValues(field).Inc()
}

// Degraded exposes the degraded-field counter for inspection.
func (c *Collector) Degraded() *prometheus.CounterVec {
	if c == nil {
		return nil
	}
	return c.degraded
}

// BreakerOpen sets the breaker gauge.
func (c *Collector) BreakerOpen(open bool) {
	if c == nil {
		return
	}
	if open {
		c.breakerOpen.Set(1)
	} else {
		c.breakerOpen.Set(0)
	}
}

// ── Exposition ───────────────────────────────────────────────────────

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
