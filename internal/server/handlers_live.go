package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/live"
	"github.com/claude/fitlife/internal/models"
)

type sessionResponse struct {
	live.SessionView
	Applied bool `json:"applied"`
}

type trackResponse struct {
	live.TrackView
	Applied  bool `json:"applied"`
	Accepted int  `json:"accepted,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var set models.WorkoutSet
	if !decodeBody(w, r, &set) {
		return
	}
	v, err := s.live.StartSession(userIDFromContext(r), set)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.live.Session(userIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := s.live.DiscardSession(userIDFromContext(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionCommand(w http.ResponseWriter, r *http.Request) {
	v, applied, err := s.live.SessionCommand(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"), chi.URLParam(r, "cmd"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionView: v, Applied: applied})
}

func (s *Server) handleStartTrack(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Activity       string  `json:"activity"`
		IndoorSpeedKmh float64 `json:"indoor_speed_kmh"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	switch body.Activity {
	case "":
		body.Activity = models.ActivityRunning
	case models.ActivityRunning, models.ActivityWalking, models.ActivityCycling, models.ActivityIndoorRunning:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown activity " + body.Activity})
		return
	}
	v := s.live.StartTrack(userIDFromContext(r), body.Activity, body.IndoorSpeedKmh)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	v, err := s.live.Track(userIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleTrackCommand(w http.ResponseWriter, r *http.Request) {
	v, applied, err := s.live.TrackCommand(userIDFromContext(r), chi.URLParam(r, "id"), chi.URLParam(r, "cmd"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{TrackView: v, Applied: applied})
}

func (s *Server) handleAddSamples(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Samples []models.Coordinate `json:"samples"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	v, n, err := s.live.AddSamples(userIDFromContext(r), chi.URLParam(r, "id"), body.Samples)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{TrackView: v, Applied: n > 0, Accepted: n})
}

func (s *Server) handleTrackStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status cardio.Status `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	switch body.Status {
	case cardio.StatusInitializing, cardio.StatusReady, cardio.StatusError, cardio.StatusDenied:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown gps status " + string(body.Status)})
		return
	}
	v, err := s.live.SetStatus(userIDFromContext(r), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleTrackSpeed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IndoorSpeedKmh float64 `json:"indoor_speed_kmh"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := s.live.SetSpeed(userIDFromContext(r), chi.URLParam(r, "id"), body.IndoorSpeedKmh)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStopTrack(w http.ResponseWriter, r *http.Request) {
	v, err := s.live.StopTrack(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
