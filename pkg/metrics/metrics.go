package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart engine activity.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	items     prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_item_count",
		Help:    "Total item count observed after each cart mutation.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})
	reg.MustRegister(mutations, items)
	return &CartMetrics{mutations: mutations, items: items}
}

// IncMutation counts one applied mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveItemCount records the cart size after a mutation.
func (c *CartMetrics) ObserveItemCount(count int) {
	if c == nil || c.items == nil {
		return
	}
	c.items.Observe(float64(count))
}

// WizardMetrics records guided flow transitions and submissions.
type WizardMetrics struct {
	transitions *prometheus.CounterVec
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewWizardMetrics registers the wizard metrics on the provided registerer.
func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	if reg == nil {
		return &WizardMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_transitions_total",
		Help: "Wizard transitions, by flow and event.",
	}, []string{"flow", "event"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_submissions_total",
		Help: "Wizard submissions, by flow and outcome.",
	}, []string{"flow", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wizard_submit_duration_seconds",
		Help:    "Duration of the submit/charge call in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"flow"})
	reg.MustRegister(transitions, submissions, duration)
	return &WizardMetrics{
		transitions: transitions,
		submissions: submissions,
		duration:    duration,
	}
}

// IncTransition counts a wizard event (select, advance, retreat, reset, submit).
func (w *WizardMetrics) IncTransition(flow, event string) {
	if w == nil || w.transitions == nil {
		return
	}
	w.transitions.WithLabelValues(normalizeLabel(flow), normalizeLabel(event)).Inc()
}

// ObserveSubmission records the outcome and duration of one submit call.
func (w *WizardMetrics) ObserveSubmission(flow, outcome string, duration time.Duration) {
	if w == nil || w.submissions == nil || w.duration == nil {
		return
	}
	w.submissions.WithLabelValues(normalizeLabel(flow), normalizeLabel(outcome)).Inc()
	w.duration.WithLabelValues(normalizeLabel(flow)).Observe(duration.Seconds())
}

// PersistenceMetrics records snapshot writes.
type PersistenceMetrics struct {
	writes   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewPersistenceMetrics registers the snapshot metrics on the provided registerer.
func NewPersistenceMetrics(reg prometheus.Registerer) *PersistenceMetrics {
	if reg == nil {
		return &PersistenceMetrics{}
	}
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_writes_total",
		Help: "Snapshot writes attempted, by logical key.",
	}, []string{"key"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_write_failures_total",
		Help: "Snapshot writes that failed, by logical key.",
	}, []string{"key"})
	reg.MustRegister(writes, failures)
	return &PersistenceMetrics{writes: writes, failures: failures}
}

// IncWrite counts an attempted snapshot write.
func (p *PersistenceMetrics) IncWrite(key string) {
	if p == nil || p.writes == nil {
		return
	}
	p.writes.WithLabelValues(normalizeLabel(key)).Inc()
}

// IncFailure counts a failed snapshot write.
func (p *PersistenceMetrics) IncFailure(key string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(key)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
