package models

import "time"

// Cardio activity kinds.
const (
	ActivityRunning       = "running"
	ActivityWalking       = "walking"
	ActivityCycling       = "cycling"
	ActivityIndoorRunning = "indoor_running"
)

// Coordinate is a single GPS sample.
type Coordinate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// CardioSummary is the immutable result of a stopped cardio track.
type CardioSummary struct {
	Activity        string       `json:"activity"`
	DistanceKm      float64      `json:"distance_km"`
	DurationSeconds int          `json:"duration_seconds"`
	Calories        int          `json:"calories"`
	Pace            string       `json:"pace"`
	Route           []Coordinate `json:"route"`
	StartPoint      *Coordinate  `json:"start_point"`
	EndPoint        *Coordinate  `json:"end_point"`
	IsIndoor        bool         `json:"is_indoor"`
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         time.Time    `json:"ended_at"`
}

// SessionSummary is emitted when a guided workout session completes.
type SessionSummary struct {
	SetID              string `json:"set_id"`
	SetName            string `json:"set_name"`
	Difficulty         string `json:"difficulty"`
	ExercisesCompleted int    `json:"exercises_completed"`
	TotalTimeMinutes   int    `json:"total_time_minutes"`
	ActualTimeSeconds  int    `json:"actual_time_seconds"`
	CompletedEarly     bool   `json:"completed_early"`
	Calories           int    `json:"calories"`
}
