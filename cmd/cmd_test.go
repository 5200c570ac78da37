package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/pkg/export"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseLegArgs(t *testing.T) {
	it, err := parseLegArgs([]string{"walk:2", "Car:10:3", "plane:900"})
	require.NoError(t, err)
	assert.Equal(t, model.Itinerary{
		{Mode: model.ModeWalk, DistanceKm: 2},
		{Mode: model.ModeCar, DistanceKm: 10, Passengers: 3},
		{Mode: model.ModeFlight, DistanceKm: 900},
	}, it)

	for _, bad := range []string{"walk", "walk:x", "teleport:3", "car:1:two", "a:1:2:3"} {
		_, err := parseLegArgs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestScoreCSV(t *testing.T) {
	out, err := run(t, "score", "walk:2", "train:10", "--format", "csv")
	require.NoError(t, err)

	rep, err := export.ReadCSV(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, rep.Itinerary, 2)
	require.NotNil(t, rep.Total)
	assert.InDelta(t, 12, rep.Total.DistanceKm, 1e-9)
	assert.InDelta(t, 0.3, rep.Total.EmissionsKg, 1e-9)
}

func TestScoreText(t *testing.T) {
	out, err := run(t, "score", "car:3")
	require.NoError(t, err)
	assert.Contains(t, out, "eco-score")
	assert.Contains(t, out, "[switch-short-car-trips]")
}

func TestScoreFileAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "commute.yaml")
	require.NoError(t, os.WriteFile(in, []byte("legs:\n  - mode: bus\n    distance_km: 8\n"), 0o644))
	dst := filepath.Join(dir, "out.json")

	_, err := run(t, "score", "--file", in, "walk:1", "--format", "json", "-o", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var res ecoscore.Result
	require.NoError(t, json.Unmarshal(data, &res))
	require.Len(t, res.Legs, 2)
	assert.InDelta(t, 9, res.TotalDistanceKm, 1e-9)
}

func TestReadItineraryList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- mode: train\n  distance_km: 40\n"), 0o644))
	it, err := readItinerary(path)
	require.NoError(t, err)
	assert.Equal(t, model.Itinerary{{Mode: model.ModeTrain, DistanceKm: 40}}, it)
}

func TestScoreInvalidLeg(t *testing.T) {
	_, err := run(t, "score", "car:-1")
	assert.ErrorIs(t, err, ecoscore.ErrInvalidLeg)

	_, err = run(t, "score", "walk:1", "--format", "xml")
	assert.Error(t, err)
}

func TestModes(t *testing.T) {
	out, err := run(t, "modes")
	require.NoError(t, err)
	assert.Contains(t, out, "walk")
	assert.Contains(t, out, "flight")
	assert.Contains(t, out, "0.190")
}

func TestHistoryImportAndList(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "history:\n  type: sqlite\n  conf:\n    path: " + filepath.Join(dir, "h.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	report := filepath.Join(dir, "ecocommute-s1.csv")
	res, err := ecoscore.Default().Compute(model.Itinerary{{Mode: model.ModeTrain, DistanceKm: 30}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, model.Itinerary{{Mode: model.ModeTrain, DistanceKm: 30}}, res))
	require.NoError(t, os.WriteFile(report, buf.Bytes(), 0o644))

	out, err := run(t, "-c", cfgPath, "history", "import", "--at", "2024-05-02T08:00:00Z", report)
	require.NoError(t, err)
	assert.Contains(t, out, "imported=1")

	out, err = run(t, "-c", cfgPath, "history", "list", "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-05-02T08:00:00Z")
	assert.Contains(t, out, "s1")

	out, err = run(t, "-c", cfgPath, "history", "list", "--json", "--start", "2024-06-01T00:00:00Z")
	require.NoError(t, err)
	var body struct {
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Empty(t, body.Records)

	_, err = run(t, "history", "list", "--start", "yesterday")
	assert.Error(t, err)
}
