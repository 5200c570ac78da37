package metrics

import (
	"time"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

// ScoreEvent is emitted each time a session itinerary is scored.
type ScoreEvent struct {
	SessionID       string
	Trigger         string
	Legs            int
	DistanceKm      float64
	EmissionsKg     float64
	Score           float64
	ModeDistanceKm  map[model.Mode]float64
	Recommendations []string
	Time            time.Time
}

// NewScoreEvent builds the event recorded for res.
func NewScoreEvent(sessionID, trigger string, res ecoscore.Result, at time.Time) ScoreEvent {
	return ScoreEvent{
		SessionID:       sessionID,
		Trigger:         trigger,
		Legs:            len(res.Legs),
		DistanceKm:      res.TotalDistanceKm,
		EmissionsKg:     res.TotalEmissionsKg,
		Score:           res.Score,
		ModeDistanceKm:  res.ModeDistanceKm,
		Recommendations: res.Tags(),
		Time:            at,
	}
}

// ScoreSink records score events.
type ScoreSink interface {
	RecordScore(ev ScoreEvent) error
}

// SessionEvent captures a session lifecycle transition.
type SessionEvent struct {
	SessionID string
	Kind      string
	Time      time.Time
}

// SessionEventRecorder records session lifecycle transitions.
type SessionEventRecorder interface {
	RecordSessionEvent(ev SessionEvent) error
}

// ActiveSessionsRecorder records the number of live sessions.
type ActiveSessionsRecorder interface {
	RecordActiveSessions(n int) error
}

// InvalidLegRecorder counts legs rejected by validation.
type InvalidLegRecorder interface {
	RecordInvalidLeg(reason string) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordScore(ScoreEvent) error          { return nil }
func (NopSink) RecordSessionEvent(SessionEvent) error { return nil }
func (NopSink) RecordActiveSessions(int) error        { return nil }
func (NopSink) RecordInvalidLeg(string) error         { return nil }
