package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

func TestTracker_AddRemove(t *testing.T) {
	tr := NewTracker(ecoscore.Default())
	i, err := tr.AddLeg(model.Leg{Mode: model.ModeWalk, DistanceKm: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = tr.AddLeg(model.Leg{Mode: model.ModeTrain, DistanceKm: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	_, err = tr.AddLeg(model.Leg{Mode: model.ModeBus, DistanceKm: 3})
	require.NoError(t, err)

	removed, err := tr.RemoveLeg(1)
	require.NoError(t, err)
	assert.Equal(t, model.ModeTrain, removed.Mode)
	legs := tr.Legs()
	require.Len(t, legs, 2)
	assert.Equal(t, model.ModeWalk, legs[0].Mode)
	assert.Equal(t, model.ModeBus, legs[1].Mode)

	_, err = tr.RemoveLeg(2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = tr.RemoveLeg(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestTracker_RejectsInvalidLeg(t *testing.T) {
	tr := NewTracker(ecoscore.Default())
	_, err := tr.AddLeg(model.Leg{Mode: model.ModeCar, DistanceKm: -5})
	assert.ErrorIs(t, err, ecoscore.ErrInvalidLeg)
	_, err = tr.AddLeg(model.Leg{Mode: model.ModeUnknown, DistanceKm: 5})
	assert.ErrorIs(t, err, ecoscore.ErrInvalidLeg)
	assert.Zero(t, tr.Len())
}

func TestTracker_SnapshotIsolation(t *testing.T) {
	tr := NewTracker(nil)
	_, _ = tr.AddLeg(model.Leg{Mode: model.ModeBus, DistanceKm: 2})
	snap := tr.Legs()
	snap[0].DistanceKm = 100
	assert.Equal(t, 2.0, tr.Legs()[0].DistanceKm)

	tr.Reset()
	assert.Empty(t, tr.Legs())
	assert.Len(t, snap, 1)
}
