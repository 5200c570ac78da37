package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kilianp07/ecocommute/core/model"
)

// ErrIndexOutOfRange is returned when removing a leg that does not exist.
var ErrIndexOutOfRange = errors.New("leg index out of range")

// LegValidator checks a leg before it is accepted. *ecoscore.Engine
// implements it.
type LegValidator interface {
	ValidateLeg(index int, l model.Leg) error
}

// Tracker builds an itinerary interactively. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	legs      model.Itinerary
	validator LegValidator
}

// NewTracker returns an empty tracker. A nil validator accepts every leg.
func NewTracker(v LegValidator) *Tracker {
	return &Tracker{validator: v}
}

// AddLeg validates l and appends it. It returns the index of the new leg.
func (t *Tracker) AddLeg(l model.Leg) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.legs)
	if t.validator != nil {
		if err := t.validator.ValidateLeg(idx, l); err != nil {
			return 0, err
		}
	}
	t.legs = append(t.legs, l)
	return idx, nil
}

// RemoveLeg deletes the leg at index and returns it.
func (t *Tracker) RemoveLeg(index int) (model.Leg, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.legs) {
		return model.Leg{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(t.legs))
	}
	l := t.legs[index]
	t.legs = append(t.legs[:index], t.legs[index+1:]...)
	return l, nil
}

// Legs returns a snapshot of the itinerary.
func (t *Tracker) Legs() model.Itinerary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(model.Itinerary, len(t.legs))
	copy(out, t.legs)
	return out
}

// Len returns the number of legs.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.legs)
}

// Reset removes every leg.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.legs = nil
	t.mu.Unlock()
}
