package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanExercise is one line of a workout plan.
type PlanExercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps Reps   `json:"reps"`
	Rest string `json:"rest"`
}

// Plan is a predefined or user-built workout plan.
type Plan struct {
	ID         string         `json:"id"`
	UserID     int            `json:"user_id,omitempty"`
	Title      string         `json:"title"`
	Difficulty string         `json:"difficulty,omitempty"`
	Duration   string         `json:"duration,omitempty"`
	Exercises  []PlanExercise `json:"exercises"`
	Predefined bool           `json:"predefined,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SessionRecord is a completed workout session stored in history.
type SessionRecord struct {
	ID         uuid.UUID      `json:"id"`
	UserID     int            `json:"user_id"`
	Summary    SessionSummary `json:"summary"`
	FinishedAt time.Time      `json:"finished_at"`
}

// CardioRecord is a stopped cardio track stored in history.
type CardioRecord struct {
	ID      uuid.UUID     `json:"id"`
	UserID  int           `json:"user_id"`
	Summary CardioSummary `json:"summary"`
}

// FavoriteWorkout is a WorkoutSet saved by a user.
type FavoriteWorkout struct {
	UserID  int        `json:"user_id"`
	Workout WorkoutSet `json:"workout"`
	AddedAt time.Time  `json:"added_at"`
}

// FavoriteExercise is a catalog exercise saved by a user.
type FavoriteExercise struct {
	UserID   int       `json:"user_id"`
	Exercise Exercise  `json:"exercise"`
	AddedAt  time.Time `json:"added_at"`
}
