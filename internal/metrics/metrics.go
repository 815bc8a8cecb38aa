package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeFault    = "fault"
	OutcomeFallback = "fallback"
)

var (
	Registry = prometheus.NewRegistry()

	storeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chainchat",
			Subsystem: "store",
			Name:      "calls_total",
			Help:      "Repository calls by backend, operation and outcome.",
		},
		[]string{"backend", "op", "outcome"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chainchat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path", "status"},
	)

	ingestJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chainchat",
			Subsystem: "ingest",
			Name:      "jobs_total",
			Help:      "Knowledge ingestion jobs by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		storeCalls,
		httpDuration,
		ingestJobs,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func StoreCall(backend, op, outcome string) {
	storeCalls.WithLabelValues(backend, op, outcome).Inc()
}

// ObserveHTTP records one request. path is the route template, not the
// raw url.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func IngestJob(result string) {
	ingestJobs.WithLabelValues(result).Inc()
}
