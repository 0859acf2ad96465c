package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pomodoro/internal/core/engine"
	"pomodoro/internal/core/timer"
)

// Collector records engine activity as prometheus metrics.
type Collector struct {
	actions     *prometheus.CounterVec
	completions *prometheus.CounterVec
	remaining   prometheus.Gauge
	running     prometheus.Gauge
	generation  prometheus.Gauge
}

// New creates a Collector and registers it with registerer.
func New(registerer prometheus.Registerer) *Collector {
	collector := &Collector{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pomodoro_actions_total",
				Help: "Actions handled by the dispatcher, by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pomodoro_phase_completions_total",
				Help: "Countdowns that ran to completion, by phase.",
			},
			[]string{"phase"},
		),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pomodoro_remaining_seconds",
			Help: "Seconds left in the current run.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pomodoro_running",
			Help: "1 while the countdown is armed.",
		}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pomodoro_generation",
			Help: "Current arm/disarm generation.",
		}),
	}
	registerer.MustRegister(
		collector.actions,
		collector.completions,
		collector.remaining,
		collector.running,
		collector.generation,
	)
	return collector
}

// Handler serves the metrics gathered by registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func (collector *Collector) ActionHandled(action string, outcome engine.Outcome) {
	collector.actions.With(prometheus.Labels{
		"action":  action,
		"outcome": string(outcome),
	}).Inc()
}

func (collector *Collector) PhaseCompleted(phase timer.Phase) {
	collector.completions.WithLabelValues(phase.String()).Inc()
}

func (collector *Collector) StateChanged(state timer.State) {
	collector.remaining.Set(float64(state.RemainingSeconds))
	collector.generation.Set(float64(state.Generation))
	if state.Running {
		collector.running.Set(1)
	} else {
		collector.running.Set(0)
	}
}
