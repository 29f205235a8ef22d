package conjura

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Facade labels.
const (
	facadeInvoke  = "invoke"
	facadeSummon  = "summon"
	facadeWhisper = "whisper"
)

// Outcome labels.
const (
	outcomeData         = "data"
	outcomeBackendError = "backend_error"
	outcomeClientError  = "client_error"
	outcomeTransport    = "transport_error"
	outcomeOK           = "ok"
	outcomeNotOK        = "not_ok"
	outcomeFailed       = "failed"
)

// Metrics counts calls per facade and outcome. A nil *Metrics is a no-op.
type Metrics struct {
	callsTotal *prometheus.CounterVec
}

// NewMetrics registers the call counters on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{
		callsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "conjura_calls_total",
				Help: "Total number of backend calls by facade and outcome",
			},
			[]string{"facade", "outcome"},
		),
	}
}

func (m *Metrics) observe(facade, outcome string) {
	if m == nil || m.callsTotal == nil {
		return
	}
	m.callsTotal.WithLabelValues(facade, outcome).Inc()
}

// outcomeOf maps an error returned by Invoke/Summon to an outcome label.
func outcomeOf(err error) string {
	switch err.(type) {
	case nil:
		return outcomeData
	case *BackendError, *MultiError:
		return outcomeBackendError
	case *Error:
		return outcomeClientError
	default:
		return outcomeTransport
	}
}

// invokeOutcome counts a returned error envelope as a backend error.
func invokeOutcome[T any](env *Envelope[T], err error) string {
	if err == nil && env != nil && env.Error != nil {
		return outcomeBackendError
	}
	return outcomeOf(err)
}
