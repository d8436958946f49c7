package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/claude/fitlife/internal/auth"
	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/export"
	"github.com/claude/fitlife/internal/live"
	"github.com/claude/fitlife/internal/plans"
	"github.com/claude/fitlife/internal/session"
	"github.com/claude/fitlife/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions, tracks := s.live.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": sessions,
		"active_tracks":   tracks,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	login, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, login)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg auth.Registration
	if !decodeBody(w, r, &reg) {
		return
	}
	login, err := s.auth.Register(r.Context(), reg)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, login)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.QueryImportLogs(r.Context(), userIDFromContext(r), queryLimit(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// errorStatus maps domain errors onto HTTP statuses and client messages.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "Username already exists"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, plans.ErrTitleRequired),
		errors.Is(err, plans.ErrNoExercises),
		errors.Is(err, session.ErrNoExercises),
		errors.Is(err, live.ErrUnknownCommand):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, plans.ErrReadOnly):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, plans.ErrNotFound),
		errors.Is(err, live.ErrNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, export.ErrNoRoute):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, cardio.ErrTrackingUnavailable),
		errors.Is(err, cardio.ErrTracking),
		errors.Is(err, cardio.ErrStopped):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError && log != nil {
		log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody decodes the JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func queryLimit(r *http.Request) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
