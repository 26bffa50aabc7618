package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	TriagesTotal       *prometheus.CounterVec
	TriageDuration     prometheus.Histogram
	TriageRisk         prometheus.Histogram
	ClassifierTotal    *prometheus.CounterVec
	ClassifierDuration prometheus.Histogram
	ReplyTotal         *prometheus.CounterVec
	ReplyDuration      prometheus.Histogram
	SubmitsTotal       *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_triages_total",
			Help: "Total triage runs by final category and recommended action.",
		}, []string{"category", "action"}),
		TriageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortex_triage_duration_seconds",
			Help:    "Duration of triage runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s .. ~51s
		}),
		TriageRisk: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortex_triage_risk",
			Help:    "Final risk score per triage run.",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 .. 100
		}),
		ClassifierTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_classifier_calls_total",
			Help: "Total semantic classifier calls by outcome.",
		}, []string{"outcome"}),
		ClassifierDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortex_classifier_call_duration_seconds",
			Help:    "Duration of individual classifier calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}),
		ReplyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_reply_drafts_total",
			Help: "Total reply drafts by path (generated or template).",
		}, []string{"path"}),
		ReplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vortex_reply_draft_duration_seconds",
			Help:    "Duration of reply generation calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}),
		SubmitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vortex_submits_total",
			Help: "Total ticket submissions by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.TriagesTotal,
		m.TriageDuration,
		m.TriageRisk,
		m.ClassifierTotal,
		m.ClassifierDuration,
		m.ReplyTotal,
		m.ReplyDuration,
		m.SubmitsTotal,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnClassify: func(degraded bool, duration float64) {
			outcome := "ok"
			if degraded {
				outcome = "degraded"
			}
			m.ClassifierTotal.WithLabelValues(outcome).Inc()
			m.ClassifierDuration.Observe(duration)
		},
		OnReply: func(fromTemplate bool, duration float64) {
			path := "generated"
			if fromTemplate {
				path = "template"
			}
			m.ReplyTotal.WithLabelValues(path).Inc()
			m.ReplyDuration.Observe(duration)
		},
		OnComplete: func(res *Result) {
			m.TriagesTotal.WithLabelValues(string(res.Category), string(res.Action)).Inc()
			m.TriageDuration.Observe(res.Duration)
			m.TriageRisk.Observe(res.Risk)
		},
	}
}
