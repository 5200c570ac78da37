package ecoscore

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/ecocommute/core/model"
)

// Engine scores itineraries. It is immutable after construction and safe for
// concurrent use.
type Engine struct {
	factors    FactorTable
	reference  float64
	thresholds Thresholds
	rules      []Rule
}

// New builds an engine from cfg. Factor overrides are applied on top of
// DefaultFactors.
func New(cfg Config) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factors := DefaultFactors()
	for name, f := range cfg.EmissionFactors {
		factors[model.ParseMode(name)] = f
	}
	return &Engine{
		factors:    factors,
		reference:  cfg.ReferenceFactor,
		thresholds: cfg.Thresholds.Resolve(),
		rules:      Rules,
	}, nil
}

// Default returns an engine using the built-in tables.
func Default() *Engine {
	e, _ := New(Config{})
	return e
}

// Factors returns a copy of the emission factor table.
func (e *Engine) Factors() FactorTable { return e.factors.Clone() }

// Thresholds returns the recommendation thresholds.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// ReferenceFactor is the per km intensity that scores zero.
func (e *Engine) ReferenceFactor() float64 { return e.reference }

// ValidateLeg checks a single leg. index is reported in the error.
func (e *Engine) ValidateLeg(index int, l model.Leg) error {
	fail := func(reason string) error {
		return &InvalidLegError{Index: index, Leg: l, Reason: reason}
	}
	if _, ok := e.factors[l.Mode]; !ok || !l.Mode.Valid() {
		return fail("unrecognized mode")
	}
	if math.IsNaN(l.DistanceKm) || math.IsInf(l.DistanceKm, 0) {
		return fail("distance is not a finite number")
	}
	if l.DistanceKm < 0 {
		return fail("distance must not be negative")
	}
	if l.DistanceKm > MaxLegKm {
		return fail("distance exceeds maximum")
	}
	if l.Passengers < 0 {
		return fail("passengers must not be negative")
	}
	return nil
}

// Validate checks every leg of it and returns the first failure.
func (e *Engine) Validate(it model.Itinerary) error {
	for i, l := range it {
		if err := e.ValidateLeg(i, l); err != nil {
			return err
		}
	}
	return nil
}

// Compute scores it. Invalid input fails with *InvalidLegError and no
// partial result.
func (e *Engine) Compute(it model.Itinerary) (Result, error) {
	if err := e.Validate(it); err != nil {
		return Result{}, err
	}
	n := len(it)
	dist := make([]float64, n)
	perKm := make([]float64, n)
	res := Result{
		Legs:           make([]LegEmission, n),
		ModeDistanceKm: map[model.Mode]float64{},
	}
	var st Stats
	for i, l := range it {
		dist[i] = l.DistanceKm
		perKm[i] = e.factors[l.Mode] / float64(l.Occupants())
		em := dist[i] * perKm[i]
		res.Legs[i] = LegEmission{Leg: l, EmissionsKg: em, Score: e.score(em, l.DistanceKm)}
		if l.DistanceKm == 0 {
			continue
		}
		res.ModeDistanceKm[l.Mode] += l.DistanceKm
		st.observe(l)
	}
	res.TotalDistanceKm = floats.Sum(dist)
	res.TotalEmissionsKg = floats.Dot(dist, perKm)
	st.DistanceKm = res.TotalDistanceKm
	st.EmissionsKg = res.TotalEmissionsKg

	res.Score = e.score(res.TotalEmissionsKg, res.TotalDistanceKm)
	res.Band = band(res.Score)
	res.Recommendations = recommend(e.rules, st, e.thresholds)
	res.CarBaselineKg = res.TotalDistanceKm * e.reference
	res.SavedVsCarKg = res.CarBaselineKg - res.TotalEmissionsKg
	res.TreesToOffset = int(math.Floor(res.TotalEmissionsKg / TreeAbsorptionKg))
	return res, nil
}

// score maps the average intensity per km onto [0,100]. Emitting nothing
// scores 100 and emitting the reference factor per km or more scores 0.
func (e *Engine) score(emissionsKg, distanceKm float64) float64 {
	if distanceKm <= 0 || e.reference <= 0 {
		return BaselineScore
	}
	perKm := emissionsKg / distanceKm
	s := 100 - perKm/e.reference*100
	return math.Max(0, math.Min(100, s))
}

func (s *Stats) observe(l model.Leg) {
	s.Legs++
	switch {
	case l.Mode.Active():
		s.ActiveKm += l.DistanceKm
	case l.Mode.Car():
		s.CarKm += l.DistanceKm
		if l.Occupants() == 1 {
			s.SoloCarKm += l.DistanceKm
		}
	case l.Mode == model.ModeFlight:
		if s.FlightLegs == 0 || l.DistanceKm < s.ShortestFlightKm {
			s.ShortestFlightKm = l.DistanceKm
		}
		s.FlightLegs++
	}
}
