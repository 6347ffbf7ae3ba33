package question

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for generation metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics records generation outcomes and latency.
type Metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers the generation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jeopardy",
			Name:      "question_generations_total",
			Help:      "Question generation attempts by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jeopardy",
			Name:      "question_generation_seconds",
			Help:      "Latency of a single question generation.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
}

// Instrument wraps next so every call is counted and timed. It belongs inside
// WithSentinel so upstream failures are counted before they are masked.
func (m *Metrics) Instrument(next Generator) Generator {
	return GeneratorFunc(func(ctx context.Context, req Request) (Pair, error) {
		start := time.Now()
		pair, err := next.Generate(ctx, req)
		m.duration.Observe(time.Since(start).Seconds())

		if err != nil {
			m.generations.WithLabelValues(OutcomeError).Inc()
		} else {
			m.generations.WithLabelValues(OutcomeSuccess).Inc()
		}
		return pair, err
	})
}
