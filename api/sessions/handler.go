// Package sessions exposes the session tracker over HTTP.
package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/ecocommute/api/respond"
	"github.com/kilianp07/ecocommute/core/ecoscore"
	"github.com/kilianp07/ecocommute/core/geo"
	"github.com/kilianp07/ecocommute/core/history"
	coremetrics "github.com/kilianp07/ecocommute/core/metrics"
	"github.com/kilianp07/ecocommute/core/model"
	"github.com/kilianp07/ecocommute/core/monitoring"
	"github.com/kilianp07/ecocommute/core/session"
	"github.com/kilianp07/ecocommute/infra/logger"
	"github.com/kilianp07/ecocommute/pkg/export"
)

// Options configures a Handler.
type Options struct {
	Manager *session.Manager
	Engine  *ecoscore.Engine
	// History receives a record when a session is deleted. Nil disables it.
	History history.Store
	// Sink counts rejected legs when it implements InvalidLegRecorder.
	Sink   coremetrics.ScoreSink
	Logger logger.Logger
}

// Handler serves /sessions.
type Handler struct {
	mgr     *session.Manager
	engine  *ecoscore.Engine
	history history.Store
	invalid coremetrics.InvalidLegRecorder
	log     logger.Logger
	now     func() time.Time
}

// NewHandler creates a Handler. Manager and Engine are required.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		mgr:     opts.Manager,
		engine:  opts.Engine,
		history: opts.History,
		log:     opts.Logger,
		now:     time.Now,
	}
	if r, ok := opts.Sink.(coremetrics.InvalidLegRecorder); ok {
		h.invalid = r
	}
	if h.log == nil {
		h.log = logger.NopLogger{}
	}
	return h
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.End)
			r.Get("/score", h.Score)
			r.Get("/export", h.Export)
			r.Post("/legs", h.AddLeg)
			r.Delete("/legs", h.Reset)
			r.Delete("/legs/{index}", h.RemoveLeg)
		})
	})
}

type sessionView struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	LastActive time.Time       `json:"last_active"`
	Legs       model.Itinerary `json:"legs"`
	Result     ecoscore.Result `json:"result"`
}

func (h *Handler) view(s *session.Session) (sessionView, error) {
	it := s.Itinerary()
	res, err := h.engine.Compute(it)
	if err != nil {
		return sessionView{}, err
	}
	if it == nil {
		it = model.Itinerary{}
	}
	return sessionView{ID: s.ID, CreatedAt: s.CreatedAt, LastActive: s.LastActive(), Legs: it, Result: res}, nil
}

func (h *Handler) session(r *http.Request) (*session.Session, error) {
	return h.mgr.Get(chi.URLParam(r, "id"))
}

// Create handles POST /sessions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.mgr.Create()
	v, err := h.view(s)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+s.ID)
	respond.JSON(w, http.StatusCreated, v)
}

// List handles GET /sessions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]string{"sessions": h.mgr.IDs()})
}

// Get handles GET /sessions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	v, err := h.view(s)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// Score handles GET /sessions/{id}/score.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	res, err := h.engine.Compute(s.Itinerary())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// AddLegRequest is the body of POST /sessions/{id}/legs. The distance is
// either given directly or derived from the from/to coordinates.
type AddLegRequest struct {
	Mode       string     `json:"mode" validate:"required"`
	DistanceKm *float64   `json:"distance_km" validate:"required_without=From,excluded_with=From"`
	From       *geo.Point `json:"from" validate:"required_without=DistanceKm"`
	To         *geo.Point `json:"to" validate:"required_with=From"`
	Passengers int        `json:"passengers"`
}

// Leg converts the request into a leg. Mode names are resolved with
// model.ParseMode; unknown names are left to the engine validation.
func (req AddLegRequest) Leg() (model.Leg, error) {
	l := model.Leg{Mode: model.ParseMode(req.Mode), Passengers: req.Passengers}
	if req.DistanceKm != nil {
		l.DistanceKm = *req.DistanceKm
		return l, nil
	}
	d, err := geo.DistanceKm(*req.From, *req.To)
	if err != nil {
		return model.Leg{}, respond.BadRequest("%v", err)
	}
	l.DistanceKm = d
	return l, nil
}

type addLegResponse struct {
	Index  int             `json:"index"`
	Leg    model.Leg       `json:"leg"`
	Result ecoscore.Result `json:"result"`
}

// AddLeg handles POST /sessions/{id}/legs.
func (h *Handler) AddLeg(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req AddLegRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := respond.Validate(req); err != nil {
		respond.Error(w, r, err)
		return
	}
	leg, err := req.Leg()
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	idx, err := s.AddLeg(leg)
	if err != nil {
		h.recordInvalid(err)
		respond.Error(w, r, err)
		return
	}
	res, err := h.engine.Compute(s.Itinerary())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.log.Debugw("leg added", map[string]any{"session": s.ID, "mode": leg.Mode.String(), "distance_km": leg.DistanceKm})
	respond.JSON(w, http.StatusCreated, addLegResponse{Index: idx, Leg: leg, Result: res})
}

func (h *Handler) recordInvalid(err error) {
	var legErr *ecoscore.InvalidLegError
	if h.invalid != nil && errors.As(err, &legErr) {
		_ = h.invalid.RecordInvalidLeg(legErr.Reason)
	}
}

type removeLegResponse struct {
	Removed model.Leg       `json:"removed"`
	Result  ecoscore.Result `json:"result"`
}

// RemoveLeg handles DELETE /sessions/{id}/legs/{index}.
func (h *Handler) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.Error(w, r, respond.BadRequest("leg index must be an integer"))
		return
	}
	removed, err := s.RemoveLeg(idx)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	res, err := h.engine.Compute(s.Itinerary())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, removeLegResponse{Removed: removed, Result: res})
}

// Reset handles DELETE /sessions/{id}/legs.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s.Reset()
	v, err := h.view(s)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// Export handles GET /sessions/{id}/export?format=csv|json|pdf.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, r, respond.BadRequest("%v", err))
		return
	}
	it := s.Itinerary()
	res, err := h.engine.Compute(it)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ecocommute-"+s.ID+"."+string(format)))
	rep := export.Report{Title: "Session " + s.ID, Itinerary: it, Result: res}
	if err := export.Write(w, format, rep); err != nil {
		h.log.Errorf("export session %s: %v", s.ID, err)
		monitoring.CaptureException(err, map[string]string{"session": s.ID, "format": string(format)})
	}
}

type endResponse struct {
	ID       string          `json:"id"`
	Legs     model.Itinerary `json:"legs"`
	Result   ecoscore.Result `json:"result"`
	Recorded bool            `json:"recorded"`
}

// End handles DELETE /sessions/{id}. The final result is stored in the
// history when one is configured.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.End(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	it := s.Itinerary()
	res, err := h.engine.Compute(it)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := endResponse{ID: s.ID, Legs: it, Result: res}
	if out.Legs == nil {
		out.Legs = model.Itinerary{}
	}
	if h.history != nil {
		_, ok, err := history.Snapshot(r.Context(), h.history, h.engine, s.ID, h.now(), it)
		if err != nil {
			h.log.Errorf("history snapshot: %v", err)
			monitoring.CaptureException(err, map[string]string{"session": s.ID})
		}
		out.Recorded = ok
	}
	respond.JSON(w, http.StatusOK, out)
}
