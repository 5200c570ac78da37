package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
)

// PromSink records score events in Prometheus metrics.
type PromSink struct {
	scores    prometheus.Histogram
	emissions prometheus.Histogram
	scored    *prometheus.CounterVec
	distance  *prometheus.CounterVec
	sessions  *prometheus.CounterVec
	active    prometheus.Gauge
	invalid   *prometheus.CounterVec
}

// NewPromSink registers the collectors on the default registerer. The
// /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the collectors on reg. A nil reg
// defaults to the global registerer. Collectors already registered by a
// previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "itinerary_eco_score",
			Help:    "Eco-Score of scored itineraries",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		emissions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "itinerary_emissions_kg",
			Help:    "Estimated CO2e of scored itineraries",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50, 100},
		}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_scored_total",
			Help: "Number of itinerary computations by trigger",
		}, []string{"trigger"}),
		distance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ended_session_distance_km_total",
			Help: "Distance travelled per mode in ended sessions",
		}, []string{"mode"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_events_total",
			Help: "Session lifecycle transitions",
		}, []string{"kind"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live tracking sessions",
		}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invalid_legs_total",
			Help: "Legs rejected by validation",
		}, []string{"reason"}),
	}
	var err error
	if s.scores, err = register(reg, s.scores); err != nil {
		return nil, err
	}
	if s.emissions, err = register(reg, s.emissions); err != nil {
		return nil, err
	}
	if s.scored, err = register(reg, s.scored); err != nil {
		return nil, err
	}
	if s.distance, err = register(reg, s.distance); err != nil {
		return nil, err
	}
	if s.sessions, err = register(reg, s.sessions); err != nil {
		return nil, err
	}
	if s.active, err = register(reg, s.active); err != nil {
		return nil, err
	}
	if s.invalid, err = register(reg, s.invalid); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordScore observes the score and emissions. Distances per mode are only
// accumulated when the session ends so recomputations are not double counted.
func (s *PromSink) RecordScore(ev coremetrics.ScoreEvent) error {
	s.scores.Observe(ev.Score)
	s.emissions.Observe(ev.EmissionsKg)
	s.scored.WithLabelValues(ev.Trigger).Inc()
	if ev.Trigger == "ended" {
		for m, km := range ev.ModeDistanceKm {
			s.distance.WithLabelValues(m.String()).Add(km)
		}
	}
	return nil
}

// RecordSessionEvent counts lifecycle transitions.
func (s *PromSink) RecordSessionEvent(ev coremetrics.SessionEvent) error {
	s.sessions.WithLabelValues(ev.Kind).Inc()
	return nil
}

// RecordActiveSessions sets the live session gauge.
func (s *PromSink) RecordActiveSessions(n int) error {
	s.active.Set(float64(n))
	return nil
}

// RecordInvalidLeg counts rejected legs.
func (s *PromSink) RecordInvalidLeg(reason string) error {
	s.invalid.WithLabelValues(reason).Inc()
	return nil
}
