package feedback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the feedback metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var analysesStarted = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "feedback",
	Name:      "analyses_started_total",
	Help:      "Number of recordings submitted for analysis",
})

var analysesFailed = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "feedback",
	Name:      "analyses_failed_total",
	Help:      "Number of failed analyses by stage",
}, []string{"stage"})

var uploadPolls = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "feedback",
	Name:      "upload_polls_total",
	Help:      "Number of upload state polls",
})

var generateSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "feedback",
	Name:      "analysis_duration_seconds",
	Help:      "Time from upload to generated feedback",
	Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
})
