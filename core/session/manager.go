package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Publisher receives session events. *eventbus.Bus[Event] implements it.
type Publisher interface {
	Publish(Event)
}

// Manager owns the live sessions. Each session has its own itinerary and
// nothing is shared between them.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	validator LegValidator
	pub       Publisher
	now       func() time.Time
}

// NewManager creates a Manager. pub may be nil.
func NewManager(v LegValidator, pub Publisher) *Manager {
	return &Manager{
		sessions:  map[string]*Session{},
		validator: v,
		pub:       pub,
		now:       time.Now,
	}
}

func (m *Manager) publish(e Event) {
	if m.pub != nil {
		m.pub.Publish(e)
	}
}

// Create starts a new empty session.
func (m *Manager) Create() *Session {
	now := m.now()
	s := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		tracker:    NewTracker(m.validator),
		publish:    m.publish,
		now:        m.now,
		lastActive: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.publish(Event{SessionID: s.ID, Kind: EventCreated, Time: now})
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// End removes the session and returns it with its final itinerary.
func (m *Manager) End(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.end()
	return s, nil
}

// IDs returns the ids of live sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Expire ends every session idle for longer than ttl and returns them.
func (m *Manager) Expire(ttl time.Duration) []*Session {
	cutoff := m.now().Add(-ttl)
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()
	var out []*Session
	for _, id := range stale {
		if s, err := m.End(id); err == nil {
			out = append(out, s)
		}
	}
	return out
}
