package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// profiler is the implementation of the Profiler interface.
type profiler struct {
	mu sync.Mutex

	logger         *slog.Logger
	registry       *prometheus.Registry
	registerer     prometheus.Registerer
	namespace      string
	updateInterval time.Duration
	now            func() time.Time

	tickCount      int
	jobCount       int
	tickTime       time.Duration
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	ticks        *prometheus.CounterVec
	jobs         *prometheus.HistogramVec
	tickDuration *prometheus.HistogramVec
	missingClips *prometheus.CounterVec
}

// Profiler tracks animation player throughput. Every tick is exported as prometheus
// metrics labelled by graph name, and a summary line is logged at a fixed interval.
// A Profiler may be shared by players ticked from several goroutines.
type Profiler interface {
	// RecordTick records one completed player tick.
	// Logs a summary when the update interval has elapsed.
	//
	// Parameters:
	//   - graph: the name of the ticked graph
	//   - jobs: the number of jobs the tick emitted
	//   - elapsed: the wall time the tick took
	//
	// Returns:
	//   - bool: true if the summary was logged by this call
	RecordTick(graph string, jobs int, elapsed time.Duration) bool

	// RecordMissingClip records a sample that fell back to the rest pose.
	//
	// Parameters:
	//   - graph: the name of the ticked graph
	//   - clip: the handle of the clip that is not loaded
	RecordMissingClip(graph, clip string)

	// Gatherer exposes the metrics for scraping or inspection.
	//
	// Returns:
	//   - prometheus.Gatherer: the registry the metrics were registered with
	Gatherer() prometheus.Gatherer
}

var _ Profiler = &profiler{}

// NewProfiler creates a new Profiler. Metrics register with a private registry unless
// WithRegisterer is given; the update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &profiler{
		logger:         slog.Default(),
		namespace:      "animgraph",
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.registerer == nil {
		p.registry = prometheus.NewRegistry()
		p.registerer = p.registry
	}

	factory := promauto.With(p.registerer)
	p.ticks = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: p.namespace,
		Subsystem: "player",
		Name:      "ticks_total",
		Help:      "Completed animation player ticks",
	}, []string{"graph"})
	p.jobs = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Subsystem: "player",
		Name:      "jobs_per_tick",
		Help:      "Jobs emitted per animation player tick",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
	}, []string{"graph"})
	p.tickDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Subsystem: "player",
		Name:      "tick_duration_seconds",
		Help:      "Wall time of one animation player tick",
		Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
	}, []string{"graph"})
	p.missingClips = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: p.namespace,
		Subsystem: "mixer",
		Name:      "missing_clip_samples_total",
		Help:      "Samples that fell back to the rest pose because the clip was not loaded",
	}, []string{"graph", "clip"})

	p.lastTime = p.now()
	return p
}

func (p *profiler) RecordTick(graph string, jobs int, elapsed time.Duration) bool {
	p.ticks.WithLabelValues(graph).Inc()
	p.jobs.WithLabelValues(graph).Observe(float64(jobs))
	p.tickDuration.WithLabelValues(graph).Observe(elapsed.Seconds())

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tickCount++
	p.jobCount += jobs
	p.tickTime += elapsed

	currentTime := p.now()
	window := currentTime.Sub(p.lastTime)
	if window < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / window.Seconds()

	p.logger.Info("[Profiler] animation ticks",
		"ticks_per_sec", float64(p.tickCount)/window.Seconds(),
		"avg_jobs", float64(p.jobCount)/float64(p.tickCount),
		"avg_tick", p.tickTime/time.Duration(p.tickCount),
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRateMB,
		"gc", p.memStats.NumGC-p.lastGCCount,
	)

	p.tickCount = 0
	p.jobCount = 0
	p.tickTime = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

func (p *profiler) RecordMissingClip(graph, clip string) {
	p.missingClips.WithLabelValues(graph, clip).Inc()
}

func (p *profiler) Gatherer() prometheus.Gatherer {
	if p.registry != nil {
		return p.registry
	}
	if g, ok := p.registerer.(prometheus.Gatherer); ok {
		return g
	}
	return prometheus.DefaultGatherer
}
