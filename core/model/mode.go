package model

import "strings"

// Mode identifies the means of transport used for a leg.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeWalk
	ModeBicycle
	ModeBus
	ModeElectricBus
	ModeTrain
	ModeCarpool
	ModeCar
	ModeDieselCar
	ModeElectricCar
	ModeMotorbike
	ModeRideshare
	ModeFlight
)

// Modes lists every known mode in declaration order.
var Modes = []Mode{
	ModeWalk,
	ModeBicycle,
	ModeBus,
	ModeElectricBus,
	ModeTrain,
	ModeCarpool,
	ModeCar,
	ModeDieselCar,
	ModeElectricCar,
	ModeMotorbike,
	ModeRideshare,
	ModeFlight,
}

var modeNames = map[Mode]string{
	ModeWalk:        "walk",
	ModeBicycle:     "bicycle",
	ModeBus:         "bus",
	ModeElectricBus: "electric_bus",
	ModeTrain:       "train",
	ModeCarpool:     "carpool",
	ModeCar:         "car",
	ModeDieselCar:   "diesel_car",
	ModeElectricCar: "electric_car",
	ModeMotorbike:   "motorbike",
	ModeRideshare:   "rideshare",
	ModeFlight:      "flight",
}

var modeAliases = map[string]Mode{
	"foot":                ModeWalk,
	"walking":             ModeWalk,
	"bike":                ModeBicycle,
	"cycle":               ModeBicycle,
	"cycling":             ModeBicycle,
	"diesel_bus":          ModeBus,
	"e_bus":               ModeElectricBus,
	"metro":               ModeTrain,
	"rail":                ModeTrain,
	"subway":              ModeTrain,
	"tram":                ModeTrain,
	"petrol_car":          ModeCar,
	"single_occupant_car": ModeCar,
	"ev":                  ModeElectricCar,
	"moto":                ModeMotorbike,
	"motorcycle":          ModeMotorbike,
	"taxi":                ModeRideshare,
	"uber":                ModeRideshare,
	"plane":               ModeFlight,
	"air":                 ModeFlight,
}

// String returns the canonical name of the mode.
func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether m is a recognised mode.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// Active reports whether the mode is human powered.
func (m Mode) Active() bool { return m == ModeWalk || m == ModeBicycle }

// Car reports whether the mode is a privately driven car.
func (m Mode) Car() bool {
	return m == ModeCar || m == ModeDieselCar || m == ModeElectricCar
}

// Shared reports whether emissions are split between the vehicle occupants.
// Public transport factors are already expressed per passenger.
func (m Mode) Shared() bool {
	return m.Car() || m == ModeMotorbike || m == ModeRideshare
}

// ParseMode converts a user supplied name into a Mode. Matching is case
// insensitive and treats '-' and ' ' as '_'. Unrecognised names yield
// ModeUnknown.
func ParseMode(s string) Mode {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(key)
	for m, n := range modeNames {
		if n == key {
			return m
		}
	}
	if m, ok := modeAliases[key]; ok {
		return m
	}
	return ModeUnknown
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are kept
// as ModeUnknown so validation can report them with the leg index.
func (m *Mode) UnmarshalText(b []byte) error {
	*m = ParseMode(string(b))
	return nil
}
