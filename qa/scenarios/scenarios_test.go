package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	scs, err := LoadDir("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, scs)
	for _, sc := range scs {
		t.Run(sc.Name, func(t *testing.T) {
			fails, err := Run(sc)
			require.NoError(t, err)
			for _, f := range fails {
				t.Error(f)
			}
		})
	}
}

func TestRunReportsMismatch(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "green_commute.yaml"))
	require.NoError(t, err)
	high := 99.0
	sc.Expected.MinScore = &high
	sc.Expected.Absent = []string{"top-tier"}
	fails, err := Run(sc)
	require.NoError(t, err)
	assert.Len(t, fails, 2)
}

func TestRunBadScoringConfig(t *testing.T) {
	sc := &Scenario{Name: "bad"}
	sc.Scoring.EmissionFactors = map[string]float64{"hovercraft": 1}
	_, err := Run(sc)
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":"), 0o644))
	if _, err := Load(path); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestLoadDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("legs:\n  - mode: walk\n    distance_km: 1\n"), 0o644))
	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "unnamed.yaml", sc.Name)
}
