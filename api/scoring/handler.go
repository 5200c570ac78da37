// Package scoring exposes the factor table and stateless itinerary scoring.
package scoring

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/ecocommute/api/respond"
	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/model"
)

type modesResponse struct {
	Modes           []ecoscore.FactorEntry `json:"modes"`
	ReferenceFactor float64                `json:"reference_factor"`
	Thresholds      ecoscore.Thresholds    `json:"thresholds"`
}

// ScoreRequest is the body of POST /score.
type ScoreRequest struct {
	Legs []struct {
		Mode       string  `json:"mode" validate:"required"`
		DistanceKm float64 `json:"distance_km"`
		Passengers int     `json:"passengers"`
	} `json:"legs" validate:"max=500,dive"`
}

// Itinerary converts the request legs.
func (req ScoreRequest) Itinerary() model.Itinerary {
	it := make(model.Itinerary, len(req.Legs))
	for i, l := range req.Legs {
		it[i] = model.Leg{Mode: model.ParseMode(l.Mode), DistanceKm: l.DistanceKm, Passengers: l.Passengers}
	}
	return it
}

// RegisterRoutes mounts GET /modes and POST /score on r.
func RegisterRoutes(r chi.Router, engine *ecoscore.Engine) {
	r.Get("/modes", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, modesResponse{
			Modes:           engine.Factors().Entries(),
			ReferenceFactor: engine.ReferenceFactor(),
			Thresholds:      engine.Thresholds(),
		})
	})
	r.Post("/score", func(w http.ResponseWriter, r *http.Request) {
		var req ScoreRequest
		if err := respond.DecodeJSON(w, r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		if err := respond.Validate(req); err != nil {
			respond.Error(w, r, err)
			return
		}
		res, err := engine.Compute(req.Itinerary())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, res)
	})
}
