package ecoscore

import (
	"sort"

	"github.com/kilianp07/ecocommute/core/model"
)

// FactorTable maps a mode to its emission factor in kg CO2e per passenger-km.
type FactorTable map[model.Mode]float64

// DefaultFactors returns the built-in emission factors.
func DefaultFactors() FactorTable {
	return FactorTable{
		model.ModeWalk:        0,
		model.ModeBicycle:     0,
		model.ModeTrain:       0.03,
		model.ModeElectricBus: 0.04,
		model.ModeElectricCar: 0.05,
		model.ModeBus:         0.10,
		model.ModeMotorbike:   0.11,
		model.ModeCarpool:     0.12,
		model.ModeDieselCar:   0.17,
		model.ModeCar:         0.19,
		model.ModeRideshare:   0.22,
		model.ModeFlight:      0.25,
	}
}

// Clone returns an independent copy of the table.
func (t FactorTable) Clone() FactorTable {
	out := make(FactorTable, len(t))
	for m, f := range t {
		out[m] = f
	}
	return out
}

// FactorEntry is one row of the table in display form.
type FactorEntry struct {
	Mode      model.Mode `json:"mode"`
	KgPerKm   float64    `json:"kg_per_km"`
	PerPerson bool       `json:"shared_by_occupants"`
}

// Entries returns the table sorted by ascending factor, then by mode.
func (t FactorTable) Entries() []FactorEntry {
	out := make([]FactorEntry, 0, len(t))
	for m, f := range t {
		out = append(out, FactorEntry{Mode: m, KgPerKm: f, PerPerson: m.Shared()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KgPerKm != out[j].KgPerKm {
			return out[i].KgPerKm < out[j].KgPerKm
		}
		return out[i].Mode < out[j].Mode
	})
	return out
}
