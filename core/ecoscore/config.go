package ecoscore

import (
	"fmt"
	"math"

	"github.com/kilianp07/ecocommute/core/model"
)

const (
	// BaselineScore is returned for itineraries without any distance.
	BaselineScore = 100.0
	// DefaultReferenceFactor is the single-occupant petrol car factor. An
	// itinerary emitting this much per km scores zero.
	DefaultReferenceFactor = 0.19
	// TreeAbsorptionKg is the CO2 a tree absorbs per day of commute.
	TreeAbsorptionKg = 0.06
	// MaxLegKm bounds a single leg to the Earth's circumference.
	MaxLegKm = 40075.0
)

// Thresholds parameterises the recommendation rules.
type Thresholds struct {
	// ShortCarKm flags car usage whose total distance stays below this value.
	ShortCarKm float64 `json:"short_car_km" yaml:"short_car_km"`
	// SoloCarKm flags single-occupant car distance above this value.
	SoloCarKm float64 `json:"solo_car_km" yaml:"solo_car_km"`
	// ShortFlightKm flags flights shorter than this value.
	ShortFlightKm float64 `json:"short_flight_km" yaml:"short_flight_km"`
	// HighEmissionsKg flags itineraries emitting more than this value.
	HighEmissionsKg float64 `json:"high_emissions_kg" yaml:"high_emissions_kg"`
	// TopTierKg praises itineraries emitting less than this value.
	TopTierKg float64 `json:"top_tier_kg" yaml:"top_tier_kg"`
}

// DefaultThresholds returns the built-in rule thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShortCarKm:      5,
		SoloCarKm:       20,
		ShortFlightKm:   800,
		HighEmissionsKg: 10,
		TopTierKg:       2,
	}
}

// ThresholdConfig overrides individual thresholds. Nil fields keep the
// default, so an explicit zero is honoured.
type ThresholdConfig struct {
	ShortCarKm      *float64 `json:"short_car_km" yaml:"short_car_km"`
	SoloCarKm       *float64 `json:"solo_car_km" yaml:"solo_car_km"`
	ShortFlightKm   *float64 `json:"short_flight_km" yaml:"short_flight_km"`
	HighEmissionsKg *float64 `json:"high_emissions_kg" yaml:"high_emissions_kg"`
	TopTierKg       *float64 `json:"top_tier_kg" yaml:"top_tier_kg"`
}

// Threshold returns a pointer to v for use in ThresholdConfig literals.
func Threshold(v float64) *float64 { return &v }

// Resolve applies the overrides on top of DefaultThresholds.
func (c ThresholdConfig) Resolve() Thresholds {
	t := DefaultThresholds()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.ShortCarKm, c.ShortCarKm)
	set(&t.SoloCarKm, c.SoloCarKm)
	set(&t.ShortFlightKm, c.ShortFlightKm)
	set(&t.HighEmissionsKg, c.HighEmissionsKg)
	set(&t.TopTierKg, c.TopTierKg)
	return t
}

// Config customises the engine. Zero values select the defaults.
type Config struct {
	// EmissionFactors overrides factors keyed by mode name.
	EmissionFactors map[string]float64 `json:"emission_factors" yaml:"emission_factors"`
	ReferenceFactor float64            `json:"reference_factor" yaml:"reference_factor"`
	Thresholds      ThresholdConfig    `json:"thresholds" yaml:"thresholds"`
}

// SetDefaults applies the built-in reference factor when unset. Thresholds
// are resolved by the engine.
func (c *Config) SetDefaults() {
	if c.ReferenceFactor == 0 {
		c.ReferenceFactor = DefaultReferenceFactor
	}
}

// Validate checks factor names and ranges.
func (c Config) Validate() error {
	for name, f := range c.EmissionFactors {
		if !model.ParseMode(name).Valid() {
			return fmt.Errorf("emission factor for unknown mode %q", name)
		}
		if !finite(f) || f < 0 {
			return fmt.Errorf("emission factor for %s must be a non-negative number", name)
		}
	}
	if !finite(c.ReferenceFactor) || c.ReferenceFactor < 0 {
		return fmt.Errorf("reference factor must be a positive number")
	}
	t := c.Thresholds.Resolve()
	for _, v := range []float64{t.ShortCarKm, t.SoloCarKm, t.ShortFlightKm, t.HighEmissionsKg, t.TopTierKg} {
		if !finite(v) || v < 0 {
			return fmt.Errorf("thresholds must be non-negative numbers")
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
