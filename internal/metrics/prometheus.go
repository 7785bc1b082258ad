// Package metrics provides Prometheus-based metrics for the intake service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds every collector the service exports.
// It satisfies generation.Metrics.
type Recorder struct {
	registry *prometheus.Registry

	generationAttempts *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	fallbacksTotal     *prometheus.CounterVec
	stageTransitions   *prometheus.CounterVec
	sessionsTotal      *prometheus.CounterVec
	messagesTotal      *prometheus.CounterVec
}

// NewRecorder creates a Recorder backed by its own registry so tests and
// multiple servers never collide on the global one.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		generationAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_generation_attempts_total",
				Help: "Provider calls made by the generation adapter, by outcome",
			},
			[]string{"outcome"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_generation_duration_seconds",
				Help:    "Duration of individual provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_generation_fallbacks_total",
				Help: "Canned replies served instead of generated text, by category",
			},
			[]string{"category"},
		),
		stageTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_stage_transitions_total",
				Help: "Stage changes made by the conversation machine",
			},
			[]string{"from", "to"},
		),
		sessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_sessions_total",
				Help: "Session lifecycle events (started, completed, exited, deleted)",
			},
			[]string{"event"},
		),
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_messages_total",
				Help: "Candidate messages processed, by stage at arrival",
			},
			[]string{"stage"},
		),
	}
}

// ObserveAttempt records one provider call.
func (r *Recorder) ObserveAttempt(outcome string, elapsed time.Duration) {
	r.generationAttempts.WithLabelValues(outcome).Inc()
	r.generationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncFallback counts a canned reply.
func (r *Recorder) IncFallback(category string) {
	r.fallbacksTotal.WithLabelValues(category).Inc()
}

// ObserveTransition counts a stage change.
func (r *Recorder) ObserveTransition(from, to string) {
	r.stageTransitions.WithLabelValues(from, to).Inc()
}

// IncSession counts a session lifecycle event.
func (r *Recorder) IncSession(event string) {
	r.sessionsTotal.WithLabelValues(event).Inc()
}

// IncMessage counts a processed candidate message.
func (r *Recorder) IncMessage(stage string) {
	r.messagesTotal.WithLabelValues(stage).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
