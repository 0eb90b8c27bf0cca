package statsclient

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Request results
const (
	ResultError   = "error"
	ResultSuccess = "success"
)

// Metrics records statistics protocol activity
type Metrics struct {
	outcomes     *prom.CounterVec
	pollAttempts prom.Counter
	requests     *prom.CounterVec
}

// NewMetrics constructs the collectors and registers them on reg.
// A nil reg keeps them unregistered.
func NewMetrics(reg prom.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "repolines",
			Name:      "fetch_outcomes_total",
			Help:      "Terminal statistics fetch outcomes by kind",
		}, []string{"outcome"}),
		pollAttempts: prom.NewCounter(prom.CounterOpts{
			Namespace: "repolines",
			Name:      "poll_attempts_total",
			Help:      "Status queries issued while a computation was in progress",
		}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "repolines",
			Name:      "requests_total",
			Help:      "HTTP requests to the statistics server by endpoint and result",
		}, []string{"endpoint", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.outcomes, m.pollAttempts, m.requests)
	}
	return m
}

func (m *Metrics) observeRequest(endpoint string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.requests.WithLabelValues(endpoint, result).Inc()
}

func (m *Metrics) observePollAttempt() {
	if m == nil {
		return
	}
	m.pollAttempts.Inc()
}

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
