package models

import (
	"strconv"
	"strings"
	"time"
)

// Canonical muscle groups used to filter the exercise catalog.
const (
	MuscleChest     = "chest"
	MuscleBack      = "back"
	MuscleLegs      = "legs"
	MuscleShoulders = "shoulders"
	MuscleArms      = "arms"
	MuscleCore      = "core"
	MuscleFull      = "full"
	MuscleUpper     = "upper"
)

// Difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Equipment types selected by the user.
const (
	EquipmentWith    = "with"
	EquipmentWithout = "without"
)

// Set focus labels.
const (
	FocusStrength  = "strength"
	FocusEndurance = "endurance"
	FocusPower     = "power"
	FocusBalanced  = "balanced"
)

// Exercise is a static catalog entry.
type Exercise struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Muscle       string `json:"muscle"`
	Equipment    string `json:"equipment"`
	Difficulty   string `json:"difficulty"`
	Instructions string `json:"instructions,omitempty"`
}

// SetConfig holds the per-difficulty volume and timing parameters.
type SetConfig struct {
	Sets                 int    `json:"sets"`
	Reps                 string `json:"reps"`
	Rest                 int    `json:"rest"`
	ExerciseDuration     int    `json:"exercise_duration"`
	RestBetweenExercises int    `json:"rest_between_exercises"`
}

// WorkoutExercise is an Exercise enriched for one position in a WorkoutSet.
type WorkoutExercise struct {
	ID                   string `json:"id"`
	SourceID             string `json:"source_id,omitempty"`
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	Muscle               string `json:"muscle"`
	Equipment            string `json:"equipment"`
	Difficulty           string `json:"difficulty"`
	Sets                 int    `json:"sets"`
	Reps                 Reps   `json:"reps"`
	Rest                 string `json:"rest"`
	Duration             *int   `json:"duration"`
	IsBodyweight         bool   `json:"is_bodyweight"`
	RestBetweenExercises int    `json:"rest_between_exercises"`
	EstimatedTimePerSet  int    `json:"estimated_time_per_set"`
	Order                int    `json:"order"`
	Instructions         string `json:"instructions"`
}

// RestSeconds parses the leading integer of Rest ("60s" -> 60). It returns
// fallback when Rest has no leading digits or parses to zero.
func (e WorkoutExercise) RestSeconds(fallback int) int {
	if n := LeadingInt(e.Rest); n > 0 {
		return n
	}
	return fallback
}

// WorkoutSet is a named, generated bundle of exercises.
type WorkoutSet struct {
	ID             string            `json:"id"`
	Exercises      []WorkoutExercise `json:"exercises"`
	TotalExercises int               `json:"total_exercises"`
	EstimatedTime  int               `json:"estimated_time"`
	IsBodyweight   bool              `json:"is_bodyweight"`
	Muscle         string            `json:"muscle"`
	Difficulty     string            `json:"difficulty"`
	EquipmentType  string            `json:"equipment_type"`
	Config         *SetConfig        `json:"config,omitempty"`
	SetName        string            `json:"set_name"`
	SetDescription string            `json:"set_description"`
	SetFocus       string            `json:"set_focus"`
	IsTopPick      bool              `json:"is_top_pick,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Bodyweight reports whether the set is run with timed (bodyweight) sets.
func (w WorkoutSet) Bodyweight() bool {
	return w.IsBodyweight || w.EquipmentType == EquipmentWithout
}

// LeadingInt parses the integer prefix of s, ignoring leading whitespace.
// "45s" -> 45, "30 sec" -> 30, "abc" -> 0.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
