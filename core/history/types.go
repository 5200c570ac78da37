// Package history keeps a record of scored sessions so progress can be
// followed across days.
package history

import (
	"context"
	"time"

	"github.com/kilianp07/ecocommute/core/ecoscore"
)

// Record summarises one scored itinerary.
type Record struct {
	SessionID   string    `json:"session_id"`
	Time        time.Time `json:"time"`
	Legs        int       `json:"legs"`
	DistanceKm  float64   `json:"distance_km"`
	EmissionsKg float64   `json:"emissions_kg"`
	Score       float64   `json:"score"`
}

// FromResult builds a Record from an engine result.
func FromResult(sessionID string, at time.Time, res ecoscore.Result) Record {
	return Record{
		SessionID:   sessionID,
		Time:        at.UTC(),
		Legs:        len(res.Legs),
		DistanceKm:  res.TotalDistanceKm,
		EmissionsKg: res.TotalEmissionsKg,
		Score:       res.Score,
	}
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start     time.Time
	End       time.Time
	SessionID string
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	return true
}

// Store persists records.
type Store interface {
	Add(ctx context.Context, r Record) error
	// Query returns matching records ordered by time.
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Day aligns t to the start of its UTC day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
