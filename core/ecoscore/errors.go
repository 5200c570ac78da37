package ecoscore

import (
	"errors"
	"fmt"

	"github.com/kilianp07/ecocommute/core/model"
)

// ErrInvalidLeg matches every *InvalidLegError through errors.Is.
var ErrInvalidLeg = errors.New("invalid leg")

// InvalidLegError reports a leg that cannot be scored.
type InvalidLegError struct {
	Index  int
	Leg    model.Leg
	Reason string
}

func (e *InvalidLegError) Error() string {
	return fmt.Sprintf("invalid leg %d (mode=%s distance_km=%g): %s", e.Index, e.Leg.Mode, e.Leg.DistanceKm, e.Reason)
}

// Is reports whether target is ErrInvalidLeg.
func (e *InvalidLegError) Is(target error) bool { return target == ErrInvalidLeg }
