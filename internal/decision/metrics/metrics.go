package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision pipeline: eligibility,
// trust, government decisions and disbursement.
type Metrics struct {
	// Evidence gathering latencies by source
	EvidenceLatency *prometheus.HistogramVec

	EligibilityOutcome *prometheus.CounterVec
	Recommendation     *prometheus.CounterVec
	TrustScore         prometheus.Histogram

	GovernmentDecisions *prometheus.CounterVec
	ExpensesCreated     *prometheus.CounterVec
	DisbursedAmount     prometheus.Counter

	// Overall verify-eligibility latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all decision metrics registered.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EvidenceLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "expenseai_decision_evidence_duration_seconds",
			Help:    "Duration of evidence gathering operations by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"source"}), // source: "scheme", "trust"

		EligibilityOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_eligibility_outcomes_total",
			Help: "Eligibility results by outcome and evaluator variant",
		}, []string{"eligible", "variant"}),

		Recommendation: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_government_recommendations_total",
			Help: "Recommendations handed to government reviewers",
		}, []string{"recommendation"}),

		TrustScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "expenseai_trust_score",
			Help:    "Distribution of computed trust scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),

		GovernmentDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_government_decisions_total",
			Help: "Decisions applied to applications",
		}, []string{"decision"}),

		ExpensesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_expenses_created_total",
			Help: "Expenses created on acceptance, by fraud flag",
		}, []string{"fraudulent"}),

		DisbursedAmount: f.NewCounter(prometheus.CounterOpts{
			Name: "expenseai_disbursed_amount_total",
			Help: "Sum of expense totals disbursed",
		}),

		EvaluateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "expenseai_decision_evaluate_duration_seconds",
			Help:    "Duration of eligibility verification including evidence gathering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveEvidenceLatency records the duration of fetching evidence from a source.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementEligibility records an eligibility result.
func (m *Metrics) IncrementEligibility(eligible bool, variant string) {
	if m != nil {
		m.EligibilityOutcome.WithLabelValues(strconv.FormatBool(eligible), variant).Inc()
	}
}

// IncrementRecommendation records the recommendation returned to reviewers.
func (m *Metrics) IncrementRecommendation(recommendation string) {
	if m != nil {
		m.Recommendation.WithLabelValues(recommendation).Inc()
	}
}

// ObserveTrustScore records an unrounded trust score.
func (m *Metrics) ObserveTrustScore(score float64) {
	if m != nil {
		m.TrustScore.Observe(score)
	}
}

// IncrementDecision records an applied government decision.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.GovernmentDecisions.WithLabelValues(decision).Inc()
	}
}

// RecordExpense records a created expense and its amount.
func (m *Metrics) RecordExpense(fraudulent bool, amount float64) {
	if m != nil {
		m.ExpensesCreated.WithLabelValues(strconv.FormatBool(fraudulent)).Inc()
		m.DisbursedAmount.Add(amount)
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
