// Package api exposes the guard's administrative surface over HTTP and
// streams alerts to websocket clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/hypersystems/hyperguard"
	"github.com/hypersystems/hyperguard/violation"
)

// Engine is the administrative surface the server exposes.
type Engine interface {
	VL(id uuid.UUID, check string) (float64, error)
	AllVLs(id uuid.UUID) (map[string]float64, error)
	SetExempt(id uuid.UUID, check string, exempt bool) error
	SetGloballyExempt(id uuid.UUID, exempt bool) error
	SetDebug(id uuid.UUID, debug bool) error
	SetCheckEnabled(name string, enabled bool) error
	RecentViolations(q violation.Query) []violation.Violation
	Reload() error
	Checks() []hyperguard.CheckStatus
	Stats() []hyperguard.CheckStats
}

var _ Engine = (*hyperguard.Guard)(nil)

// Server serves the administrative API.
type Server struct {
	log    *logrus.Logger
	addr   string
	engine Engine
	hub    *Hub
}

// NewServer returns a server for the given engine. hub may be nil, in which
// case no alert stream is mounted.
func NewServer(log *logrus.Logger, addr string, engine Engine, hub *Hub) *Server {
	return &Server{log: log, addr: addr, engine: engine, hub: hub}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/checks", s.handleChecks)
		r.Put("/checks/{check}/enabled", s.handleSetCheckEnabled)
		r.Get("/violations", s.handleViolations)
		r.Get("/stats", s.handleStats)
		r.Post("/config/reload", s.handleReload)
		r.Route("/players/{id}", func(r chi.Router) {
			r.Get("/vl", s.handleVL)
			r.Put("/exempt", s.handleSetExempt)
			r.Put("/debug", s.handleSetDebug)
		})
		if s.hub != nil {
			r.Get("/alerts", s.hub.Handle)
		}
	})
	return r
}

// Serve implements suture.Service. The listener runs until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()
	s.log.Infof("admin api listening on %s", s.addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if s.hub != nil {
			s.hub.Close()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errs
		return ctx.Err()
	}
}

// String ...
func (s *Server) String() string {
	return "hyperguard-api"
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChecks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Checks())
}

func (s *Server) handleSetCheckEnabled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	name := chi.URLParam(r, "check")
	if err := s.engine.SetCheckEnabled(name, body.Enabled); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"check": name, "enabled": body.Enabled})
}

func (s *Server) handleViolations(w http.ResponseWriter, r *http.Request) {
	var q violation.Query
	if raw := r.URL.Query().Get("player"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed player id")
			return
		}
		q.Player = id
	}
	q.Check = r.URL.Query().Get("check")
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "malformed limit")
			return
		}
		q.Limit = limit
	}
	writeJSON(w, http.StatusOK, s.engine.RecentViolations(q))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := s.engine.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) handleVL(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	if name := r.URL.Query().Get("check"); name != "" {
		vl, err := s.engine.VL(id, name)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"check": name, "vl": vl})
		return
	}
	vls, err := s.engine.AllVLs(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vls)
}

func (s *Server) handleSetExempt(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var body struct {
		Check  string `json:"check"`
		Exempt bool   `json:"exempt"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	// An empty check name toggles the blanket exemption.
	var err error
	if body.Check == "" {
		err = s.engine.SetGloballyExempt(id, body.Exempt)
	} else {
		err = s.engine.SetExempt(id, body.Check, body.Exempt)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"check": body.Check, "exempt": body.Exempt})
}

func (s *Server) handleSetDebug(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var body struct {
		Debug bool `json:"debug"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := s.engine.SetDebug(id, body.Debug); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"debug": body.Debug})
}

func playerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed player id")
		return uuid.Nil, false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
