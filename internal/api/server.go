// Package api exposes the game engine over a small JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/q587p/telegram-game-bot/internal/engine"
	"github.com/q587p/telegram-game-bot/internal/session"
)

// maxBodyBytes bounds an action request body.
const maxBodyBytes = 4 << 10

// defaultRunLimit is used when ?limit is absent.
const defaultRunLimit = 20

// Server handles HTTP requests.
type Server struct {
	sessions *session.Manager
	runs     session.RunLister
	version  string
	started  time.Time
}

// NewServer creates a Server. runs may be nil when the store keeps no journal.
func NewServer(sessions *session.Manager, runs session.RunLister, version string) *Server {
	return &Server{
		sessions: sessions,
		runs:     runs,
		version:  version,
		started:  time.Now(),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/players/{key}", func(r chi.Router) {
		r.Get("/", s.handleProfile)
		r.Post("/actions", s.handleAction)
		r.Get("/runs", s.handleRuns)
	})

	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

// handleProfile shows the profile with pending regeneration included.
// It is read-only: the intro flag and regen are persisted by the next action.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	res, err := s.sessions.Peek(r.Context(), key, engine.Do(engine.ActionViewProfile))
	if err != nil {
		s.fail(w, key, engine.ActionViewProfile, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type actionRequest struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	a, err := engine.ParseAction(req.Action, req.Direction)
	if err != nil {
		code := "unknown_action"
		if errors.Is(err, engine.ErrBadDirection) {
			code = "bad_direction"
		}
		writeError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	s.apply(w, r, a)
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request, a engine.Action) {
	key := chi.URLParam(r, "key")
	res, err := s.sessions.Apply(r.Context(), key, a)
	if err != nil {
		s.fail(w, key, a.Kind, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(w http.ResponseWriter, key string, kind engine.ActionKind, err error) {
	if errors.Is(err, session.ErrEmptyKey) {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	slog.Error("applying action", "player", key, "action", kind, "err", err)
	writeError(w, http.StatusInternalServerError, "internal", "could not apply action")
}

type runResponse struct {
	RunID      string    `json:"runId"`
	Seed       uint32    `json:"seed"`
	Moves      int       `json:"moves"`
	Outcome    string    `json:"outcome"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "not_found", "run journal disabled")
		return
	}

	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be 1..100")
			return
		}
		limit = n
	}

	key := chi.URLParam(r, "key")
	runs, err := s.runs.ListRuns(r.Context(), key, limit)
	if err != nil {
		slog.Error("listing runs", "player", key, "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not list runs")
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse{
			RunID:      run.RunID,
			Seed:       run.Seed,
			Moves:      run.Moves,
			Outcome:    run.Outcome,
			FinishedAt: run.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
