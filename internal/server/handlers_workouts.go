package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitlife/internal/catalog"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/workout"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	muscle := q.Get("muscle")
	if strings.TrimSpace(muscle) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "muscle parameter required"})
		return
	}
	difficulty := q.Get("difficulty")
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}
	equipment := q.Get("equipment")
	if equipment == "" {
		equipment = models.EquipmentWithout
	}
	if equipment != models.EquipmentWith && equipment != models.EquipmentWithout {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": `equipment must be "with" or "without"`})
		return
	}

	sets := s.gen.Generate(r.Context(), muscle, difficulty, equipment)
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleTopPicks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gen.TopPicks(r.Context()))
}

type estimateRequest struct {
	Exercises    []models.WorkoutExercise `json:"exercises"`
	IsBodyweight bool                     `json:"is_bodyweight"`
	Difficulty   string                   `json:"difficulty"`
	Config       *models.SetConfig        `json:"config,omitempty"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cfg := workout.ConfigFor(req.Difficulty)
	if req.Config != nil {
		cfg = *req.Config
	}
	minutes := workout.EstimateDuration(req.Exercises, req.IsBodyweight, cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"estimated_minutes": minutes,
		"calories":          workout.WorkoutCalories(minutes, req.Difficulty),
		"formatted":         workout.FormatDetailedTime(minutes * 60),
	})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, catalog.Search(catalog.All(), q.Get("muscle"), q.Get("equipment")))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	list, err := s.plans.List(r.Context(), userIDFromContext(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var p models.Plan
	if !decodeBody(w, r, &p) {
		return
	}
	created, err := s.plans.Create(r.Context(), userIDFromContext(r), p)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.plans.Get(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), userIDFromContext(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFavoriteWorkouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListFavoriteWorkouts(r.Context(), userIDFromContext(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if list == nil {
		list = []models.FavoriteWorkout{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddFavoriteWorkout(w http.ResponseWriter, r *http.Request) {
	var set models.WorkoutSet
	if !decodeBody(w, r, &set) {
		return
	}
	if set.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout id required"})
		return
	}
	added, err := s.store.AddFavoriteWorkout(r.Context(), userIDFromContext(r), set)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeFavoriteResult(w, added)
}

func (s *Server) handleRemoveFavoriteWorkout(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.RemoveFavoriteWorkout(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"))
	writeRemoveResult(w, s, removed, err)
}

func (s *Server) handleListFavoriteExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListFavoriteExercises(r.Context(), userIDFromContext(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if list == nil {
		list = []models.FavoriteExercise{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddFavoriteExercise(w http.ResponseWriter, r *http.Request) {
	var e models.Exercise
	if !decodeBody(w, r, &e) {
		return
	}
	if e.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise id required"})
		return
	}
	added, err := s.store.AddFavoriteExercise(r.Context(), userIDFromContext(r), e)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeFavoriteResult(w, added)
}

func (s *Server) handleRemoveFavoriteExercise(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.RemoveFavoriteExercise(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"))
	writeRemoveResult(w, s, removed, err)
}

// writeFavoriteResult answers 201 for a new favourite and 200 when it was
// already saved.
func writeFavoriteResult(w http.ResponseWriter, added bool) {
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

func writeRemoveResult(w http.ResponseWriter, s *Server, removed bool, err error) {
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "favourite not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
