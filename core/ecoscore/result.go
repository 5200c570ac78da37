package ecoscore

import (
	"github.com/kilianp07/ecocommute/core/model"
)

// LegEmission pairs a leg with its estimated emissions. Score rates the leg
// on its own with the itinerary formula.
type LegEmission struct {
	model.Leg
	EmissionsKg float64 `json:"emissions_kg"`
	Score       float64 `json:"score"`
}

// Result is the outcome of scoring an itinerary. It is derived entirely from
// the input and is never updated after Compute returns.
type Result struct {
	Score            float64                `json:"score"`
	Band             string                 `json:"band"`
	TotalEmissionsKg float64                `json:"total_emissions_kg"`
	TotalDistanceKm  float64                `json:"total_distance_km"`
	Legs             []LegEmission          `json:"legs"`
	Recommendations  []Recommendation       `json:"recommendations"`
	ModeDistanceKm   map[model.Mode]float64 `json:"mode_distance_km"`
	// CarBaselineKg is what the same distance would emit by solo petrol car.
	CarBaselineKg float64 `json:"car_baseline_kg"`
	// SavedVsCarKg is negative when the itinerary emits more than the baseline.
	SavedVsCarKg  float64 `json:"saved_vs_car_kg"`
	TreesToOffset int     `json:"trees_to_offset"`
}

// Has reports whether the result carries the recommendation tag.
func (r Result) Has(tag string) bool {
	for _, rec := range r.Recommendations {
		if rec.Tag == tag {
			return true
		}
	}
	return false
}

// Tags returns the recommendation tags in order.
func (r Result) Tags() []string {
	out := make([]string, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		out[i] = rec.Tag
	}
	return out
}

// Band labels a score.
func band(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 50:
		return "good"
	default:
		return "needs-improvement"
	}
}
