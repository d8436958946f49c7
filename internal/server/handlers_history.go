package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/fitlife/internal/export"
	"github.com/claude/fitlife/internal/models"
)

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListSessions(r.Context(), userIDFromContext(r), queryLimit(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if list == nil {
		list = []models.SessionRecord{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCardioHistory(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListCardio(r.Context(), userIDFromContext(r), queryLimit(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if list == nil {
		list = []models.CardioRecord{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleActivityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetActivityStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCardioExport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cardio ID"})
		return
	}
	format := chi.URLParam(r, "format")
	if format != "gpx" && format != "fit" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `format must be "gpx" or "fit"`})
		return
	}

	rec, err := s.store.GetCardio(r.Context(), userIDFromContext(r), id)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	var (
		body        []byte
		contentType string
	)
	switch format {
	case "gpx":
		body, err = export.GPX(rec.Summary)
		contentType = "application/gpx+xml"
	case "fit":
		var buf bytes.Buffer
		err = export.FIT(&buf, rec.Summary)
		body = buf.Bytes()
		contentType = "application/vnd.ant.fit"
	}
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+"."+format))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
