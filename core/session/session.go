// Package session tracks the itinerary a user builds during one session.
package session

import (
	"sync"
	"time"

	"github.com/kilianp07/ecocommute/core/model"
)

// EventKind describes what happened to a session.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventLegAdded   EventKind = "leg_added"
	EventLegRemoved EventKind = "leg_removed"
	EventReset      EventKind = "reset"
	EventEnded      EventKind = "ended"
)

// Event is published on every session mutation. Itinerary is a snapshot
// taken right after the mutation.
type Event struct {
	SessionID string
	Kind      EventKind
	Itinerary model.Itinerary
	Time      time.Time
}

// Session is one user's tracking session.
type Session struct {
	ID        string
	CreatedAt time.Time

	tracker *Tracker
	publish func(Event)
	now     func() time.Time

	// write serialises mutations with their event so snapshots are
	// published in mutation order.
	write sync.Mutex

	mu         sync.Mutex
	lastActive time.Time
}

func (s *Session) touch() time.Time {
	t := s.now()
	s.mu.Lock()
	s.lastActive = t
	s.mu.Unlock()
	return t
}

// LastActive returns the time of the last mutation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// emit publishes kind with the current itinerary. Callers hold s.write.
func (s *Session) emit(kind EventKind) {
	t := s.touch()
	if s.publish != nil {
		s.publish(Event{SessionID: s.ID, Kind: kind, Itinerary: s.tracker.Legs(), Time: t})
	}
}

// AddLeg appends a validated leg.
func (s *Session) AddLeg(l model.Leg) (int, error) {
	s.write.Lock()
	defer s.write.Unlock()
	idx, err := s.tracker.AddLeg(l)
	if err != nil {
		return 0, err
	}
	s.emit(EventLegAdded)
	return idx, nil
}

// RemoveLeg removes the leg at index.
func (s *Session) RemoveLeg(index int) (model.Leg, error) {
	s.write.Lock()
	defer s.write.Unlock()
	l, err := s.tracker.RemoveLeg(index)
	if err != nil {
		return model.Leg{}, err
	}
	s.emit(EventLegRemoved)
	return l, nil
}

// Reset clears the itinerary.
func (s *Session) Reset() {
	s.write.Lock()
	defer s.write.Unlock()
	s.tracker.Reset()
	s.emit(EventReset)
}

func (s *Session) end() {
	s.write.Lock()
	defer s.write.Unlock()
	s.emit(EventEnded)
}

// Itinerary returns a snapshot of the legs.
func (s *Session) Itinerary() model.Itinerary { return s.tracker.Legs() }
