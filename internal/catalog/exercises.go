package catalog

import "github.com/claude/fitlife/internal/models"

func ex(id, name, muscle, equipment, difficulty string) models.Exercise {
	return models.Exercise{
		ID:         id,
		Name:       name,
		Type:       "strength",
		Muscle:     muscle,
		Equipment:  equipment,
		Difficulty: difficulty,
	}
}

const (
	bw  = "bodyweight"
	beg = models.DifficultyBeginner
	mid = models.DifficultyIntermediate
	adv = models.DifficultyAdvanced
)

var exercises = []models.Exercise{
	// Chest
	ex("c1", "Push-ups", models.MuscleChest, bw, beg),
	ex("c2", "Wide Push-ups", models.MuscleChest, bw, mid),
	ex("c3", "Decline Push-ups", models.MuscleChest, bw, mid),
	ex("c4", "Incline Push-ups", models.MuscleChest, bw, beg),
	ex("c5", "Plyo Push-ups", models.MuscleChest, bw, adv),
	ex("c6", "Diamond Push-ups", models.MuscleChest, bw, mid),
	ex("c7", "Bench Press", models.MuscleChest, "barbell", mid),
	ex("c8", "Incline Bench Press", models.MuscleChest, "barbell", mid),
	ex("c9", "Dumbbell Press", models.MuscleChest, "dumbbell", beg),
	ex("c10", "Cable Crossovers", models.MuscleChest, "cable", mid),
	ex("c11", "Chest Fly Machine", models.MuscleChest, "machine", beg),
	ex("c12", "Pec Deck", models.MuscleChest, "machine", beg),

	// Back
	ex("b1", "Pull-ups", models.MuscleBack, bw, mid),
	ex("b2", "Chin-ups", models.MuscleBack, bw, mid),
	ex("b3", "Inverted Rows", models.MuscleBack, bw, beg),
	ex("b4", "Superman Holds", models.MuscleBack, bw, beg),
	ex("b5", "Arch Holds", models.MuscleBack, bw, beg),
	ex("b6", "Bent-over Rows", models.MuscleBack, "barbell", mid),
	ex("b7", "Lat Pulldowns", models.MuscleBack, "cable", beg),
	ex("b8", "Seated Rows", models.MuscleBack, "cable", mid),
	ex("b9", "T-bar Rows", models.MuscleBack, "machine", mid),
	ex("b10", "Single-arm Rows", models.MuscleBack, "dumbbell", beg),

	// Legs
	ex("l1", "Bodyweight Squats", models.MuscleLegs, bw, beg),
	ex("l2", "Lunges", models.MuscleLegs, bw, beg),
	ex("l3", "Jump Squats", models.MuscleLegs, bw, mid),
	ex("l4", "Glute Bridges", models.MuscleLegs, bw, beg),
	ex("l5", "Calf Raises", models.MuscleLegs, bw, beg),
	ex("l6", "Step-ups", models.MuscleLegs, bw, beg),
	ex("l7", "Barbell Squats", models.MuscleLegs, "barbell", mid),
	ex("l8", "Deadlifts", models.MuscleLegs, "barbell", adv),
	ex("l9", "Leg Press", models.MuscleLegs, "machine", beg),
	ex("l10", "Leg Extensions", models.MuscleLegs, "machine", beg),
	ex("l11", "Hamstring Curls", models.MuscleLegs, "machine", beg),

	// Shoulders
	ex("s1", "Pike Push-ups", models.MuscleShoulders, bw, mid),
	ex("s2", "Handstand Push-ups", models.MuscleShoulders, bw, adv),
	ex("s3", "Shoulder Taps", models.MuscleShoulders, bw, beg),
	ex("s4", "Wall Walks", models.MuscleShoulders, bw, mid),
	ex("s5", "Overhead Press", models.MuscleShoulders, "barbell", mid),
	ex("s6", "Dumbbell Press", models.MuscleShoulders, "dumbbell", beg),
	ex("s7", "Lateral Raises", models.MuscleShoulders, "dumbbell", beg),
	ex("s8", "Front Raises", models.MuscleShoulders, "dumbbell", beg),
	ex("s9", "Face Pulls", models.MuscleShoulders, "cable", mid),

	// Arms
	ex("a1", "Tricep Dips", models.MuscleArms, bw, mid),
	ex("a2", "Diamond Push-ups", models.MuscleArms, bw, mid),
	ex("a3", "Close Grip Push-ups", models.MuscleArms, bw, mid),
	ex("a4", "Bodyweight Curls", models.MuscleArms, bw, beg),
	ex("a5", "Barbell Curls", models.MuscleArms, "barbell", beg),
	ex("a6", "Hammer Curls", models.MuscleArms, "dumbbell", beg),
	ex("a7", "Tricep Extensions", models.MuscleArms, "dumbbell", beg),
	ex("a8", "Skull Crushers", models.MuscleArms, "barbell", mid),
	ex("a9", "Preacher Curls", models.MuscleArms, "machine", mid),

	// Core
	ex("co1", "Plank", models.MuscleCore, bw, beg),
	ex("co2", "Russian Twists", models.MuscleCore, bw, mid),
	ex("co3", "Leg Raises", models.MuscleCore, bw, mid),
	ex("co4", "Mountain Climbers", models.MuscleCore, bw, mid),
	ex("co5", "Bicycle Crunches", models.MuscleCore, bw, beg),
	ex("co6", "Flutter Kicks", models.MuscleCore, bw, beg),
	ex("co7", "Cable Crunches", models.MuscleCore, "cable", mid),
	ex("co8", "Ab Rollout", models.MuscleCore, "wheel", adv),
	ex("co9", "Hanging Leg Raises", models.MuscleCore, bw, adv),
}

var generic = []models.Exercise{
	ex("g1", "Burpees", models.MuscleFull, bw, mid),
	ex("g2", "Mountain Climbers", models.MuscleCore, bw, mid),
	ex("g3", "Jumping Jacks", models.MuscleFull, bw, beg),
}
