package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ActiveRooms      prometheus.Gauge
	RoomsCreated     prometheus.Counter
	ActionsSubmitted prometheus.Counter
	VotesSubmitted   prometheus.Counter
	PhaseResolutions prometheus.Counter
	TransitionTime   prometheus.Histogram
}

func New(namespace string) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms currently in an active game",
		}),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Total number of rooms created",
		}),
		ActionsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "night_actions_total",
			Help:      "Total number of accepted night actions",
		}),
		VotesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Total number of accepted votes",
		}),
		PhaseResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_resolutions_total",
			Help:      "Total number of phase resolutions",
		}),
		TransitionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_seconds",
			Help:      "Time spent committing one room transition",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.ActiveRooms,
		m.RoomsCreated,
		m.ActionsSubmitted,
		m.VotesSubmitted,
		m.PhaseResolutions,
		m.TransitionTime,
	)

	return m
}

func (m *Metrics) ObserveTransition(start time.Time) {
	m.TransitionTime.Observe(time.Since(start).Seconds())
}
