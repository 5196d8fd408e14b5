package webapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeHit    = "hit"
	OutcomeMiss   = "miss"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Outcomes lists the fetch outcome labels in display order.
var Outcomes = []string{OutcomeHit, OutcomeMiss, OutcomeEmpty, OutcomeFailed}

type (
	// OutcomeCount is one row of the fetch statistics.
	OutcomeCount struct {
		Outcome string
		Count   uint64
	}

	fetchMetrics struct {
		registry *prometheus.Registry
		requests *prometheus.CounterVec
	}
)

func newFetchMetrics() *fetchMetrics {
	fm := &fetchMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tbashell",
				Subsystem: "webapi",
				Name:      "requests_total",
				Help:      "Total number of API fetches by cache outcome",
			},
			[]string{"outcome"},
		),
	}
	fm.registry.MustRegister(fm.requests)

	// make every outcome visible at zero
	for _, outcome := range Outcomes {
		fm.requests.WithLabelValues(outcome)
	}
	return fm
}

func (fm *fetchMetrics) record(outcome string) {
	fm.requests.WithLabelValues(outcome).Inc()
}

func (fm *fetchMetrics) snapshot() (counts []OutcomeCount, err error) {
	families, err := fm.registry.Gather()
	if err != nil {
		return
	}

	byOutcome := map[string]uint64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					byOutcome[label.GetValue()] = uint64(metric.GetCounter().GetValue())
				}
			}
		}
	}

	counts = make([]OutcomeCount, 0, len(Outcomes))
	for _, outcome := range Outcomes {
		counts = append(counts, OutcomeCount{Outcome: outcome, Count: byOutcome[outcome]})
	}
	return
}
