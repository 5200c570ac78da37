// Package api assembles the HTTP JSON API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	historyapi "github.com/kilianp07/ecocommute/api/history"
	"github.com/kilianp07/ecocommute/api/respond"
	"github.com/kilianp07/ecocommute/api/scoring"
	"github.com/kilianp07/ecocommute/api/sessions"
	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/history"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/core/session"
	"github.com/kilianp07/ecocommute/infra/logger"
)

// Deps holds the collaborators of the API.
type Deps struct {
	Engine   *ecoscore.Engine
	Sessions *session.Manager
	// History backs GET /api/history. Nil disables the route.
	History history.Store
	// SnapshotOnEnd stores the final score of deleted sessions in History.
	SnapshotOnEnd bool
	Sink          coremetrics.ScoreSink
	// Token enables bearer authentication when non-empty.
	Token  string
	Logger logger.Logger
}

// NewRouter returns the handler serving /healthz and /api.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var snapshots history.Store
	if d.SnapshotOnEnd {
		snapshots = d.History
	}
	sh := sessions.NewHandler(sessions.Options{
		Manager: d.Sessions,
		Engine:  d.Engine,
		History: snapshots,
		Sink:    d.Sink,
		Logger:  log,
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(d.Token))
		scoring.RegisterRoutes(r, d.Engine)
		sh.RegisterRoutes(r)
		if d.History != nil {
			historyapi.RegisterRoutes(r, d.History)
		}
	})
	return r
}
