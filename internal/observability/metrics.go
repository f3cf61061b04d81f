package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report service.
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec // labels: outcome={submitted,rejected,store_error}
	SubmissionDuration prometheus.Histogram
	ReportsInMemory    prometheus.Gauge

	// Enrichment lookup metrics.
	LookupRequests *prometheus.CounterVec   // labels: kind={address,weather,classify}, outcome={success,error}
	LookupDuration *prometheus.HistogramVec // labels: kind={address,weather,classify}
	GeocodeCache   *prometheus.CounterVec   // labels: result={hit,miss}

	// Store and event publishing metrics.
	StoreRequests      *prometheus.CounterVec // labels: op={create,get_all,update,delete}, outcome={success,error}
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "submissions_total",
			Help:      "Report submission attempts by outcome.",
		}, []string{"outcome"}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadscout",
			Name:      "submission_duration_seconds",
			Help:      "Duration of a complete submit (classification plus store create).",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ReportsInMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadscout",
			Name:      "reports_in_memory",
			Help:      "Number of reports currently held in the in-memory collection.",
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "lookup_requests_total",
			Help:      "Enrichment lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadscout",
			Name:      "lookup_duration_seconds",
			Help:      "Enrichment API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
		StoreRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "store_requests_total",
			Help:      "Document store operations by op and outcome.",
		}, []string{"op", "outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "events_published_total",
			Help:      "Report-created events written to the sink topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadscout",
			Name:      "event_publish_errors_total",
			Help:      "Report-created events that failed to publish.",
		}),
	}

	prometheus.MustRegister(
		m.SubmissionsTotal,
		m.SubmissionDuration,
		m.ReportsInMemory,
		m.LookupRequests,
		m.LookupDuration,
		m.GeocodeCache,
		m.StoreRequests,
		m.EventsPublished,
		m.EventPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SubmissionsTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "roadscout", Name: "submissions_total"}, []string{"outcome"}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "roadscout", Name: "submission_duration_seconds"}),
		ReportsInMemory:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "roadscout", Name: "reports_in_memory"}),
		LookupRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "roadscout", Name: "lookup_requests_total"}, []string{"kind", "outcome"}),
		LookupDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "roadscout", Name: "lookup_duration_seconds"}, []string{"kind"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "roadscout", Name: "geocode_cache_total"}, []string{"result"}),
		StoreRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "roadscout", Name: "store_requests_total"}, []string{"op", "outcome"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "roadscout", Name: "events_published_total"}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "roadscout", Name: "event_publish_errors_total"}),
	}
}
