package catalog

import "github.com/claude/fitlife/internal/models"

func line(name string, sets int, reps models.Reps, rest string) models.PlanExercise {
	return models.PlanExercise{Name: name, Sets: sets, Reps: reps, Rest: rest}
}

// PredefinedPlans returns the built-in workout plans offered to every user.
func PredefinedPlans() []models.Plan {
	return []models.Plan{
		{
			ID:         "1",
			Title:      "Upper Body Beginner",
			Difficulty: models.DifficultyBeginner,
			Duration:   "30 minutes",
			Predefined: true,
			Exercises: []models.PlanExercise{
				line("Push-ups", 3, models.Count(12), "60s"),
				line("Shoulder Taps", 3, models.Count(10), "45s"),
				line("Plank", 3, models.TimedSeconds(30), "30s"),
				line("Tricep Dips", 3, models.Count(10), "45s"),
			},
		},
		{
			ID:         "2",
			Title:      "Lower Body Strength",
			Difficulty: models.DifficultyIntermediate,
			Duration:   "45 minutes",
			Predefined: true,
			Exercises: []models.PlanExercise{
				line("Squats", 4, models.Count(12), "60s"),
				line("Lunges", 3, models.Count(10), "45s"),
				line("Glute Bridges", 3, models.Count(15), "30s"),
				line("Calf Raises", 3, models.Count(20), "30s"),
			},
		},
		{
			ID:         "3",
			Title:      "Full Body HIIT",
			Difficulty: models.DifficultyAdvanced,
			Duration:   "25 minutes",
			Predefined: true,
			Exercises: []models.PlanExercise{
				line("Burpees", 4, models.Count(10), "30s"),
				line("Mountain Climbers", 4, models.TimedSeconds(30), "20s"),
				line("Jump Squats", 3, models.Count(15), "30s"),
				line("Push-ups", 3, models.Count(12), "30s"),
			},
		},
	}
}
