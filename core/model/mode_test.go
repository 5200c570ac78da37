package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"walk":                ModeWalk,
		"Bike":                ModeBicycle,
		"single-occupant car": ModeCar,
		"Electric Bus":        ModeElectricBus,
		"metro":               ModeTrain,
		" plane ":             ModeFlight,
		"hovercraft":          ModeUnknown,
		"":                    ModeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseMode(in), in)
	}
}

func TestModeRoundTripNames(t *testing.T) {
	for _, m := range Modes {
		assert.True(t, m.Valid())
		assert.Equal(t, m, ParseMode(m.String()))
	}
	assert.False(t, ModeUnknown.Valid())
	assert.Equal(t, "unknown", ModeUnknown.String())
}

func TestLegJSON(t *testing.T) {
	var l Leg
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"diesel-car","distance_km":4.5,"passengers":2}`), &l))
	assert.Equal(t, ModeDieselCar, l.Mode)
	assert.Equal(t, 2, l.Occupants())

	b, err := json.Marshal(Leg{Mode: ModeTrain, DistanceKm: 10})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"train","distance_km":10}`, string(b))
}

func TestOccupantsOnlyForSharedModes(t *testing.T) {
	assert.Equal(t, 1, Leg{Mode: ModeBus, Passengers: 30}.Occupants())
	assert.Equal(t, 3, Leg{Mode: ModeCar, Passengers: 3}.Occupants())
	assert.Equal(t, 1, Leg{Mode: ModeCar}.Occupants())
}

func TestItineraryClone(t *testing.T) {
	it := Itinerary{{Mode: ModeWalk, DistanceKm: 1}}
	c := it.Clone()
	c[0].DistanceKm = 5
	assert.Equal(t, 1.0, it[0].DistanceKm)
	assert.Nil(t, Itinerary(nil).Clone())
	assert.Equal(t, 1.0, it.DistanceKm())
}
