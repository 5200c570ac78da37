// Package history serves the score history.
package history

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/ecocommute/api/respond"
	corehistory "github.com/kilianp07/ecocommute/core/history"
)

type response struct {
	Records []corehistory.Record     `json:"records"`
	Days    []corehistory.DaySummary `json:"days"`
}

// NewHandler returns an HTTP handler for GET /history. The optional start
// and end query parameters are RFC3339 timestamps; session_id filters on a
// single session.
func NewHandler(store corehistory.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := corehistory.Query{SessionID: r.URL.Query().Get("session_id")}
		var err error
		if q.Start, err = parseTime(r, "start"); err != nil {
			respond.Error(w, r, err)
			return
		}
		if q.End, err = parseTime(r, "end"); err != nil {
			respond.Error(w, r, err)
			return
		}
		recs, err := store.Query(r.Context(), q)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if recs == nil {
			recs = []corehistory.Record{}
		}
		respond.JSON(w, http.StatusOK, response{Records: recs, Days: corehistory.Summarize(recs)})
	})
}

// RegisterRoutes mounts GET /history on r.
func RegisterRoutes(r chi.Router, store corehistory.Store) {
	r.Method(http.MethodGet, "/history", NewHandler(store))
}

func parseTime(r *http.Request, key string) (time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, respond.BadRequest("%s must be an RFC3339 timestamp", key)
	}
	return t, nil
}
