package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Postback terminal outcomes, used as the "outcome" label value.
const (
	OutcomeCredited      = "credited"
	OutcomeDuplicate     = "duplicate"
	OutcomeBadRequest    = "bad_request"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeUnknownUser   = "unknown_user"
	OutcomeStorageError  = "storage_error"
	OutcomeInternalError = "internal_error"
)

// Metrics holds postback counters. One instance is created in main and
// injected into the postback handler.
type Metrics struct {
	postbacksTotal     *prometheus.CounterVec
	creditedCentsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		postbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rewards",
				Subsystem: "postback",
				Name:      "requests_total",
				Help:      "Postback requests partitioned by provider and terminal outcome.",
			},
			[]string{"provider", "outcome"},
		),
		creditedCentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rewards",
				Subsystem: "postback",
				Name:      "credited_cents_total",
				Help:      "Total cents credited to user balances per provider.",
			},
			[]string{"provider"},
		),
	}
}

// ObservePostback records one terminal postback outcome.
func (m *Metrics) ObservePostback(provider, outcome string) {
	if m == nil {
		return
	}
	m.postbacksTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveCredit records a successfully applied credit.
func (m *Metrics) ObserveCredit(provider string, amountCents int64) {
	if m == nil {
		return
	}
	m.creditedCentsTotal.WithLabelValues(provider).Add(float64(amountCents))
}
