package scenarios

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

// Run scores the scenario and returns one message per failed expectation.
func Run(sc *Scenario) ([]string, error) {
	cfg := sc.Scoring
	cfg.SetDefaults()
	engine, err := ecoscore.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	res, err := engine.Compute(model.Itinerary(sc.Legs))
	return check(sc.Expected, res, err), nil
}

func check(exp Expected, res ecoscore.Result, err error) []string {
	var fails []string
	failf := func(format string, args ...any) { fails = append(fails, fmt.Sprintf(format, args...)) }

	if exp.InvalidLeg != nil {
		var legErr *ecoscore.InvalidLegError
		switch {
		case !errors.As(err, &legErr):
			failf("expected invalid leg %d, got %v", *exp.InvalidLeg, err)
		case legErr.Index != *exp.InvalidLeg:
			failf("expected invalid leg %d, got %d", *exp.InvalidLeg, legErr.Index)
		}
		return fails
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	tol := exp.Tolerance
	if tol == 0 {
		tol = 1e-6
	}
	if exp.Score != nil && math.Abs(res.Score-*exp.Score) > tol {
		failf("score %.4f, want %.4f", res.Score, *exp.Score)
	}
	if exp.MinScore != nil && res.Score < *exp.MinScore {
		failf("score %.4f below %.4f", res.Score, *exp.MinScore)
	}
	if exp.MaxScore != nil && res.Score > *exp.MaxScore {
		failf("score %.4f above %.4f", res.Score, *exp.MaxScore)
	}
	if exp.EmissionsKg != nil && math.Abs(res.TotalEmissionsKg-*exp.EmissionsKg) > tol {
		failf("emissions %.4f kg, want %.4f", res.TotalEmissionsKg, *exp.EmissionsKg)
	}
	if exp.Band != "" && res.Band != exp.Band {
		failf("band %s, want %s", res.Band, exp.Band)
	}
	tags := res.Tags()
	if exp.ExactTags {
		if !slices.Equal(tags, exp.Tags) && !(len(tags) == 0 && len(exp.Tags) == 0) {
			failf("tags %v, want %v", tags, exp.Tags)
		}
	} else {
		for _, t := range exp.Tags {
			if !res.Has(t) {
				failf("missing tag %s in %v", t, tags)
			}
		}
	}
	for _, t := range exp.Absent {
		if res.Has(t) {
			failf("unexpected tag %s", t)
		}
	}
	return fails
}
