package workout

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/claude/fitlife/internal/models"
)

type topPick struct {
	key         string
	index       int
	muscles     []string
	difficulty  string
	muscle      string
	name        string
	description string
	focus       string
}

var topPicks = []topPick{
	{
		key:         "full",
		index:       1,
		muscles:     []string{models.MuscleChest, models.MuscleLegs, models.MuscleCore},
		difficulty:  models.DifficultyBeginner,
		muscle:      models.MuscleFull,
		name:        "Full Body Energizer",
		description: "Perfect starter workout for all fitness levels",
		focus:       models.FocusBalanced,
	},
	{
		key:         "upper",
		index:       2,
		muscles:     []string{models.MuscleChest, models.MuscleBack, models.MuscleShoulders, models.MuscleArms},
		difficulty:  models.DifficultyIntermediate,
		muscle:      models.MuscleUpper,
		name:        "Upper Body Strength",
		description: "Build upper body power with bodyweight exercises",
		focus:       models.FocusStrength,
	},
	{
		key:         "core",
		index:       3,
		muscles:     []string{models.MuscleCore},
		difficulty:  models.DifficultyIntermediate,
		muscle:      models.MuscleCore,
		name:        "Core Crusher",
		description: "Strengthen your core with targeted exercises",
		focus:       models.FocusEndurance,
	},
}

const topPickSize = 4

// TopPicks returns up to three curated bodyweight sets drawn at random from
// the catalog. When the catalog fails or yields nothing it returns
// FallbackTopPicks.
func (g *Generator) TopPicks(ctx context.Context) []models.WorkoutSet {
	all, err := g.source.Exercises(ctx)
	if err != nil {
		g.log.Warn("catalog query failed, serving fallback top picks", "error", err)
		return FallbackTopPicks(g.ids, g.now())
	}

	token := g.ids()
	createdAt := g.now()

	var sets []models.WorkoutSet
	for _, p := range topPicks {
		var group []models.Exercise
		for _, e := range all {
			if slices.Contains(p.muscles, e.Muscle) {
				group = append(group, e)
			}
		}
		g.shuffle(group)
		if len(group) > topPickSize {
			group = group[:topPickSize]
		}
		if len(group) < minPerSet {
			continue
		}

		cfg := ConfigFor(p.difficulty)
		exercises := make([]models.WorkoutExercise, 0, len(group))
		for i, e := range group {
			exercises = append(exercises, g.buildExercise(e, cfg, true, i+1))
		}

		sets = append(sets, models.WorkoutSet{
			ID:             fmt.Sprintf("top-pick-%s-%s-%d", p.key, token, p.index),
			Exercises:      exercises,
			TotalExercises: len(exercises),
			EstimatedTime:  EstimateDuration(exercises, true, cfg),
			IsBodyweight:   true,
			Muscle:         p.muscle,
			Difficulty:     p.difficulty,
			EquipmentType:  models.EquipmentWithout,
			Config:         &cfg,
			SetName:        p.name,
			SetDescription: p.description,
			SetFocus:       p.focus,
			IsTopPick:      true,
			CreatedAt:      createdAt,
		})
	}

	if len(sets) == 0 {
		return FallbackTopPicks(g.ids, g.now())
	}
	return sets
}

func (g *Generator) shuffle(list []models.Exercise) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
}

const (
	pushUpInstructions   = "Start in plank position, lower body until chest nearly touches floor, then push back up."
	squatInstructions    = "Stand with feet shoulder-width apart, lower as if sitting in a chair, then return to standing."
	plankInstructions    = "Hold body in straight line from head to heels, engaging core muscles."
	lungeInstructions    = "Step forward with one leg, lower until both knees are bent at 90 degrees, then return."
	dipInstructions      = "Use parallel bars or chair, lower body by bending elbows, then push back up."
	tapInstructions      = "In plank position, tap opposite shoulder with hand while maintaining stability."
	twistInstructions    = "Sit with knees bent, lean back slightly, twist torso from side to side."
	legRaiseInstructions = "Lie on back, raise legs to vertical position, then lower with control."
	climberInstructions  = "In plank position, bring knees to chest in running motion."
)

type fixedExercise struct {
	name         string
	muscle       string
	sets         int
	reps         string
	rest         string
	duration     int
	instructions string
}

type fixedSet struct {
	idPrefix    string
	name        string
	description string
	difficulty  string
	muscle      string
	focus       string
	estimate    int
	exercises   []fixedExercise
}

var fallbackSets = []fixedSet{
	{
		idPrefix:    "fb",
		name:        "Full Body Blast",
		description: "Perfect starter workout for all fitness levels",
		difficulty:  models.DifficultyBeginner,
		muscle:      models.MuscleFull,
		focus:       models.FocusBalanced,
		estimate:    20,
		exercises: []fixedExercise{
			{"Push-ups", models.MuscleChest, 3, "12-15", "60s", 0, pushUpInstructions},
			{"Bodyweight Squats", models.MuscleLegs, 3, "15-20", "60s", 0, squatInstructions},
			{"Plank", models.MuscleCore, 3, "30s", "45s", 30, plankInstructions},
			{"Lunges", models.MuscleLegs, 3, "10-12", "60s", 0, lungeInstructions},
		},
	},
	{
		idPrefix:    "ub",
		name:        "Upper Body Strength",
		description: "Build upper body power with bodyweight exercises",
		difficulty:  models.DifficultyIntermediate,
		muscle:      models.MuscleUpper,
		focus:       models.FocusStrength,
		estimate:    25,
		exercises: []fixedExercise{
			{"Push-ups", models.MuscleChest, 4, "8-12", "75s", 0, pushUpInstructions},
			{"Tricep Dips", models.MuscleArms, 3, "10-15", "75s", 0, dipInstructions},
			{"Plank", models.MuscleCore, 3, "45s", "60s", 45, plankInstructions},
			{"Shoulder Taps", models.MuscleShoulders, 3, "20", "60s", 0, tapInstructions},
		},
	},
	{
		idPrefix:    "core",
		name:        "Core Crusher",
		description: "Strengthen your core with targeted exercises",
		difficulty:  models.DifficultyIntermediate,
		muscle:      models.MuscleCore,
		focus:       models.FocusEndurance,
		estimate:    18,
		exercises: []fixedExercise{
			{"Plank", models.MuscleCore, 3, "45s", "60s", 45, plankInstructions},
			{"Russian Twists", models.MuscleCore, 3, "20", "60s", 0, twistInstructions},
			{"Leg Raises", models.MuscleCore, 3, "15", "60s", 0, legRaiseInstructions},
			{"Mountain Climbers", models.MuscleCore, 3, "30s", "60s", 30, climberInstructions},
		},
	},
}

// FallbackTopPicks returns the fixed top picks served when the catalog is
// unavailable. One token is drawn per set; output is deterministic for a
// deterministic ids and now.
func FallbackTopPicks(ids IDFunc, now time.Time) []models.WorkoutSet {
	sets := make([]models.WorkoutSet, 0, len(fallbackSets))
	for i, fs := range fallbackSets {
		token := ids()
		exercises := make([]models.WorkoutExercise, 0, len(fs.exercises))
		for j, fe := range fs.exercises {
			we := models.WorkoutExercise{
				ID:           fmt.Sprintf("%s-%d-%s", fs.idPrefix, j+1, token),
				Name:         fe.name,
				Type:         "strength",
				Muscle:       fe.muscle,
				Equipment:    "bodyweight",
				Difficulty:   fs.difficulty,
				Sets:         fe.sets,
				Reps:         models.ParseReps(fe.reps),
				Rest:         fe.rest,
				IsBodyweight: true,
				Order:        j + 1,
				Instructions: fe.instructions,
			}
			if fe.duration > 0 {
				d := fe.duration
				we.Duration = &d
			}
			exercises = append(exercises, we)
		}
		sets = append(sets, models.WorkoutSet{
			ID:             fmt.Sprintf("top-pick-%d-%s", i+1, token),
			Exercises:      exercises,
			TotalExercises: len(exercises),
			EstimatedTime:  fs.estimate,
			IsBodyweight:   true,
			Muscle:         fs.muscle,
			Difficulty:     fs.difficulty,
			EquipmentType:  models.EquipmentWithout,
			SetName:        fs.name,
			SetDescription: fs.description,
			SetFocus:       fs.focus,
			IsTopPick:      true,
			CreatedAt:      now,
		})
	}
	return sets
}
