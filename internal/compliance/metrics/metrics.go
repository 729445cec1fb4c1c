package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance form.
type Metrics struct {
	// Plans resolved, by primary country and account type
	PlansResolved *prometheus.CounterVec

	// Warnings attached to resolved plans
	PlanWarnings *prometheus.CounterVec

	// Edits applied, by audit action
	EditsApplied *prometheus.CounterVec

	// Edits rejected, by error code
	EditsRejected *prometheus.CounterVec

	// Phone numbers kept raw because they could not be normalized
	PhoneFallbacks *prometheus.CounterVec

	ResolveDuration prometheus.Histogram
	EditDuration    prometheus.Histogram
}

// New registers the compliance metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PlansResolved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payoutkyc_plans_resolved_total",
			Help: "Field plans resolved by primary country and account type",
		}, []string{"country", "account_type"}),

		PlanWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payoutkyc_plan_warnings_total",
			Help: "Blocking warnings attached to resolved plans",
		}, []string{"code"}),

		EditsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payoutkyc_edits_applied_total",
			Help: "Compliance edits applied by action",
		}, []string{"action"}),

		EditsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payoutkyc_edits_rejected_total",
			Help: "Compliance edits rejected by error code",
		}, []string{"code"}),

		PhoneFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payoutkyc_phone_fallbacks_total",
			Help: "Phone numbers stored raw because normalization failed",
		}, []string{"field"}),

		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "payoutkyc_plan_duration_seconds",
			Help:    "Duration of loading and resolving a field plan",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),

		EditDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "payoutkyc_edit_duration_seconds",
			Help:    "Duration of applying one edit including the store update",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementPlanResolved(country, accountType string) {
	if m != nil {
		if country == "" {
			country = "none"
		}
		m.PlansResolved.WithLabelValues(country, accountType).Inc()
	}
}

func (m *Metrics) IncrementWarning(code string) {
	if m != nil {
		m.PlanWarnings.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) IncrementEditApplied(action string) {
	if m != nil {
		m.EditsApplied.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncrementEditRejected(code string) {
	if m != nil {
		m.EditsRejected.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) IncrementPhoneFallback(field string) {
	if m != nil {
		m.PhoneFallbacks.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) ObserveResolve(d time.Duration) {
	if m != nil {
		m.ResolveDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveEdit(d time.Duration) {
	if m != nil {
		m.EditDuration.Observe(d.Seconds())
	}
}
