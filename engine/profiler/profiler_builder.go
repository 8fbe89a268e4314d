package profiler

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*profiler)

// WithLogger sets the logger receiving the periodic summary.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRegisterer registers the metrics with r instead of a private registry.
// Registering two profilers with the same namespace on one registerer panics.
//
// Parameters:
//   - r: the registerer, e.g. prometheus.DefaultRegisterer
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithRegisterer(r prometheus.Registerer) ProfilerBuilderOption {
	return func(p *profiler) {
		p.registerer = r
	}
}

// WithNamespace sets the metric namespace. Defaults to "animgraph".
//
// Parameters:
//   - ns: the namespace
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithNamespace(ns string) ProfilerBuilderOption {
	return func(p *profiler) {
		if ns != "" {
			p.namespace = ns
		}
	}
}

// WithUpdateInterval sets how often the summary line is logged.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *profiler) {
		p.updateInterval = d
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *profiler) {
		p.now = now
	}
}
