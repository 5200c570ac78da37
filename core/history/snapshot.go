package history

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

// Scorer computes the result of an itinerary.
type Scorer interface {
	Compute(it model.Itinerary) (ecoscore.Result, error)
}

// Snapshot scores it and stores the record under sessionID. Itineraries
// without legs are not recorded and report false.
func Snapshot(ctx context.Context, store Store, scorer Scorer, sessionID string, at time.Time, it model.Itinerary) (Record, bool, error) {
	if len(it) == 0 {
		return Record{}, false, nil
	}
	res, err := scorer.Compute(it)
	if err != nil {
		return Record{}, false, fmt.Errorf("score session %s: %w", sessionID, err)
	}
	rec := FromResult(sessionID, at, res)
	if err := store.Add(ctx, rec); err != nil {
		return Record{}, false, fmt.Errorf("store session %s: %w", sessionID, err)
	}
	return rec, true, nil
}
