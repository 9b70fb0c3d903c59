// Package httpapi exposes the directory over HTTP with chi: a JSON API,
// a health probe and Prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// Directory is the behaviour served by the API. *services.Directory
// satisfies it.
type Directory interface {
	Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error)
	SyncNow(ctx context.Context) models.SyncResult
	CheckForUpdates(ctx context.Context) bool
	Status(ctx context.Context) (models.Status, error)
	Employee(ctx context.Context, id string) (models.Employee, error)
	FilterOptions(ctx context.Context) (models.FilterOptions, error)
	Stats(ctx context.Context) (models.Stats, error)
	Team(ctx context.Context, managerName string) (models.Team, error)
}

type handler struct {
	dir Directory
	log logging.Logger
}

// NewRouter builds the HTTP routes of the daemon.
func NewRouter(dir Directory, l logging.Logger) http.Handler {
	h := &handler{dir: dir, log: logging.OrDiscard(l).With("module", "http_api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/employees", h.search)
		r.Get("/employees/{id}", h.employee)
		r.Get("/teams", h.team)
		r.Post("/sync", h.sync)
		r.Get("/updates", h.updates)
		r.Get("/status", h.status)
		r.Get("/filters", h.filters)
		r.Get("/stats", h.stats)
	})

	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info(r.Context(), "http",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()), "took", time.Since(start))
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	st, err := h.dir.Status(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": st.Records})
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.Filters{
		Location: q.Get("location"),
		Brand:    q.Get("brand"),
		Area:     q.Get("area"),
		Title:    q.Get("title"),
	}

	res, err := h.dir.Search(r.Context(), q.Get("q"), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) employee(w http.ResponseWriter, r *http.Request) {
	e, err := h.dir.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *handler) team(w http.ResponseWriter, r *http.Request) {
	manager := strings.TrimSpace(r.URL.Query().Get("manager"))
	if manager == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "manager is required"})
		return
	}

	team, err := h.dir.Team(r.Context(), manager)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *handler) sync(w http.ResponseWriter, r *http.Request) {
	res := h.dir.SyncNow(r.Context())

	code := http.StatusOK
	switch res.Failure {
	case models.FailureTransport:
		code = http.StatusBadGateway
	case models.FailureStorage:
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

func (h *handler) updates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"available": h.dir.CheckForUpdates(r.Context())})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.dir.Status(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) filters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dir.FilterOptions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.dir.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, common.ErrStorage):
		h.log.Error(r.Context(), "storage failure", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "local cache unavailable"})
	default:
		h.log.Error(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
