package observability

import (
	"context"

	"github.com/aretw0/formbind/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultValid      = "valid"
	ResultInvalid    = "invalid"
	ResultSuperseded = "superseded"
	ResultPanic      = "panic"
)

// Metrics holds the collectors fed by Hooks.
type Metrics struct {
	Validations        *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	Submits            *prometheus.CounterVec
	Resets             prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg skips
// registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formbind_validations_total",
				Help: "Finished field validation runs.",
			},
			[]string{"trigger", "result"},
		),
		ValidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formbind_validation_duration_seconds",
				Help:    "Duration of field validation runs.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"trigger"},
		),
		Submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formbind_submits_total",
				Help: "Submit passes by outcome.",
			},
			[]string{"result"},
		),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formbind_resets_total",
			Help: "Model resets.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Validations, m.ValidationDuration, m.Submits, m.Resets)
	}
	return m
}

// Hooks returns model hooks recording into m.
func (m *Metrics) Hooks() model.Hooks {
	return model.Hooks{
		OnValidate: func(_ context.Context, e *model.ValidationEvent) {
			trigger := string(e.Trigger)
			m.Validations.WithLabelValues(trigger, validationResult(e)).Inc()
			m.ValidationDuration.WithLabelValues(trigger).Observe(e.Duration.Seconds())
		},
		OnSubmit: func(_ context.Context, e *model.SubmitEvent) {
			m.Submits.WithLabelValues(submitResult(e)).Inc()
		},
		OnReset: func(string) {
			m.Resets.Inc()
		},
	}
}

func validationResult(e *model.ValidationEvent) string {
	switch {
	case e.Fault != nil:
		return ResultPanic
	case e.Superseded:
		return ResultSuperseded
	case e.Err != nil:
		return ResultInvalid
	default:
		return ResultValid
	}
}

func submitResult(e *model.SubmitEvent) string {
	switch {
	case e.Fault != nil:
		return ResultPanic
	case e.HasError:
		return ResultInvalid
	default:
		return ResultValid
	}
}
