package model

// Leg is one segment of a journey.
type Leg struct {
	Mode       Mode    `json:"mode" yaml:"mode"`
	DistanceKm float64 `json:"distance_km" yaml:"distance_km"`
	// Passengers counts the vehicle occupants including the driver. Zero is
	// treated as a single occupant.
	Passengers int `json:"passengers,omitempty" yaml:"passengers,omitempty"`
}

// Occupants returns the number of people sharing the leg emissions.
func (l Leg) Occupants() int {
	if l.Passengers <= 0 || !l.Mode.Shared() {
		return 1
	}
	return l.Passengers
}

// Itinerary is an ordered list of legs for one session.
type Itinerary []Leg

// Clone returns a copy that shares no storage with it.
func (it Itinerary) Clone() Itinerary {
	if it == nil {
		return nil
	}
	out := make(Itinerary, len(it))
	copy(out, it)
	return out
}

// DistanceKm returns the summed distance of all legs.
func (it Itinerary) DistanceKm() float64 {
	var d float64
	for _, l := range it {
		d += l.DistanceKm
	}
	return d
}
