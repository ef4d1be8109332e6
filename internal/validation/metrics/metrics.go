package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation engine.
type Metrics struct {
	// Full evaluation passes.
	Evaluations prometheus.Counter

	// Non-passing results by rule and severity.
	RuleFailures *prometheus.CounterVec

	// Rules that panicked and were skipped.
	RulePanics *prometheus.CounterVec

	// Evaluation pass latency.
	EvaluateLatency prometheus.Histogram
}

// New creates and registers all validation engine metrics.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dentops_validation_evaluations_total",
			Help: "Total validation passes run by the engine",
		}),
		RuleFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dentops_validation_rule_failures_total",
			Help: "Non-passing rule results by rule id and severity",
		}, []string{"rule", "severity"}),
		RulePanics: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dentops_validation_rule_panics_total",
			Help: "Rules that panicked during evaluation and were skipped",
		}, []string{"rule"}),
		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dentops_validation_evaluate_duration_seconds",
			Help:    "Duration of a full validation pass",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
	}
}

// IncrementEvaluations records one full validation pass.
func (m *Metrics) IncrementEvaluations() {
	if m != nil {
		m.Evaluations.Inc()
	}
}

// IncrementRuleFailure records a non-passing rule result.
func (m *Metrics) IncrementRuleFailure(rule, severity string) {
	if m != nil {
		m.RuleFailures.WithLabelValues(rule, severity).Inc()
	}
}

// IncrementRulePanic records a skipped, panicking rule.
func (m *Metrics) IncrementRulePanic(rule string) {
	if m != nil {
		m.RulePanics.WithLabelValues(rule).Inc()
	}
}

// ObserveEvaluateLatency records the duration of a validation pass.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
