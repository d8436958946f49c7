package workout

import (
	"fmt"
	"math"

	"github.com/claude/fitlife/internal/models"
)

const (
	// emptyEstimate is reported for a set with no exercises.
	emptyEstimate = 20
	// minEstimate is the floor for any non-empty set.
	minEstimate = 15
	// weightedSetSeconds is the assumed working time of one weighted set.
	weightedSetSeconds = 45
)

var configs = map[string]models.SetConfig{
	models.DifficultyBeginner:     {Sets: 3, Reps: "10-12", Rest: 60, ExerciseDuration: 30, RestBetweenExercises: 45},
	models.DifficultyIntermediate: {Sets: 4, Reps: "8-10", Rest: 75, ExerciseDuration: 45, RestBetweenExercises: 60},
	models.DifficultyAdvanced:     {Sets: 4, Reps: "6-8", Rest: 90, ExerciseDuration: 60, RestBetweenExercises: 75},
}

// ConfigFor returns the set configuration for difficulty. Unknown
// difficulties get the beginner configuration.
func ConfigFor(difficulty string) models.SetConfig {
	if cfg, ok := configs[difficulty]; ok {
		return cfg
	}
	return configs[models.DifficultyBeginner]
}

// EstimateDuration returns the estimated minutes to complete exercises.
// Zero-valued exercise fields fall back to cfg. The result is never below
// 15, except for an empty list which estimates 20.
func EstimateDuration(exercises []models.WorkoutExercise, isBodyweight bool, cfg models.SetConfig) int {
	if len(exercises) == 0 {
		return emptyEstimate
	}

	total := 0
	for _, e := range exercises {
		sets := e.Sets
		if sets == 0 {
			sets = cfg.Sets
		}
		rest := e.RestSeconds(cfg.Rest)

		work := weightedSetSeconds
		if isBodyweight {
			work = cfg.ExerciseDuration
			if e.Duration != nil && *e.Duration != 0 {
				work = *e.Duration
			}
		} else if e.EstimatedTimePerSet != 0 {
			work = e.EstimatedTimePerSet
		}
		total += (work + rest) * sets
	}

	for _, e := range exercises[:len(exercises)-1] {
		between := e.RestBetweenExercises
		if between == 0 {
			between = cfg.RestBetweenExercises
		}
		total += between
	}

	return max(int(math.Ceil(float64(total)/60)), minEstimate)
}

var calorieMultipliers = map[string]int{
	models.DifficultyBeginner:     5,
	models.DifficultyIntermediate: 7,
	models.DifficultyAdvanced:     9,
}

// WorkoutCalories estimates calories burned by a strength session of the
// given length. A zero length counts as 25 minutes.
func WorkoutCalories(minutes int, difficulty string) int {
	if minutes == 0 {
		minutes = 25
	}
	m, ok := calorieMultipliers[difficulty]
	if !ok {
		m = 6
	}
	return minutes * m
}

// FormatDetailedTime renders seconds as "1h 2m 3s", or "2m 3s" under an hour.
func FormatDetailedTime(totalSeconds int) string {
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
