package runtime

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeHit   = "hit"
	outcomeMiss  = "miss"
	outcomeError = "error"
)

var (
	sweepSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grewgg_sweep_steps_total",
			Help: "Sweep frames evaluated, by outcome.",
		},
		[]string{"outcome"},
	)
	stepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "grewgg_step_duration_seconds",
			Help: "Duration of single-frame beam traces.",
		},
	)
)

func init() {
	prometheus.MustRegister(sweepSteps, stepDuration)
}
