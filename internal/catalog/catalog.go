// Package catalog holds the static exercise reference data and the lookup
// tables the workout generator widens its pool with.
package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/claude/fitlife/internal/models"
)

// Source supplies the exercise catalog. The generator falls back to the
// static table when a Source fails.
type Source interface {
	Exercises(ctx context.Context) ([]models.Exercise, error)
}

// Static serves the built-in exercise table.
type Static struct{}

// Exercises returns a copy of the built-in table.
func (Static) Exercises(context.Context) ([]models.Exercise, error) {
	return All(), nil
}

var _ Source = Static{}

// All returns a copy of every catalog exercise in table order.
func All() []models.Exercise {
	return slices.Clone(exercises)
}

var muscleMap = map[string]string{
	"chest":      models.MuscleChest,
	"back":       models.MuscleBack,
	"legs":       models.MuscleLegs,
	"shoulders":  models.MuscleShoulders,
	"biceps":     models.MuscleArms,
	"triceps":    models.MuscleArms,
	"arms":       models.MuscleArms,
	"core":       models.MuscleCore,
	"abdominals": models.MuscleCore,
	"abs":        models.MuscleCore,
}

// CanonicalMuscle maps a user-facing muscle label onto a catalog muscle
// group. Unknown labels pass through unchanged.
func CanonicalMuscle(label string) string {
	if m, ok := muscleMap[label]; ok {
		return m
	}
	return label
}

var bodyweightKeywords = []string{"bodyweight", "body only", "body_only", "none", "no equipment", "body weight"}

// IsBodyweight classifies a free-form equipment string.
func IsBodyweight(equipment string) bool {
	if equipment == "" {
		return false
	}
	e := strings.ToLower(equipment)
	for _, kw := range bodyweightKeywords {
		if strings.Contains(e, kw) {
			return true
		}
	}
	return false
}

// MatchesEquipment reports whether an exercise belongs to the requested
// equipment class.
func MatchesEquipment(e models.Exercise, bodyweight bool) bool {
	return IsBodyweight(e.Equipment) == bodyweight
}

var complementaryMap = map[string][]string{
	models.MuscleChest:     {models.MuscleShoulders, models.MuscleArms},
	models.MuscleBack:      {models.MuscleShoulders, models.MuscleArms},
	models.MuscleLegs:      {models.MuscleCore},
	models.MuscleShoulders: {models.MuscleChest, models.MuscleArms},
	models.MuscleArms:      {models.MuscleChest, models.MuscleShoulders},
	models.MuscleCore:      {models.MuscleLegs},
}

// Complementary returns the muscle groups used to widen a thin pool.
func Complementary(muscle string) []string {
	if groups, ok := complementaryMap[muscle]; ok {
		return groups
	}
	return []string{models.MuscleChest, models.MuscleBack}
}

// Filter returns the exercises of muscle in the given equipment class,
// preserving order. Muscle comparison is case-insensitive.
func Filter(all []models.Exercise, muscle string, bodyweight bool) []models.Exercise {
	var out []models.Exercise
	for _, e := range all {
		if strings.EqualFold(e.Muscle, muscle) && MatchesEquipment(e, bodyweight) {
			out = append(out, e)
		}
	}
	return out
}

// Generic returns the padding exercises of the given equipment class.
func Generic(bodyweight bool) []models.Exercise {
	var out []models.Exercise
	for _, e := range generic {
		if MatchesEquipment(e, bodyweight) {
			out = append(out, e)
		}
	}
	return out
}

var fallbacks = map[string][]models.Exercise{
	models.MuscleChest: {
		ex("fb-c", "Push-up Variations", models.MuscleChest, bw, beg),
		ex("fb-c2", "Chest Press", models.MuscleChest, "dumbbell", beg),
	},
	models.MuscleBack: {
		ex("fb-b", "Row Variations", models.MuscleBack, bw, beg),
		ex("fb-b2", "Back Extensions", models.MuscleBack, bw, beg),
	},
	models.MuscleLegs: {
		ex("fb-l", "Squat Variations", models.MuscleLegs, bw, beg),
		ex("fb-l2", "Lunge Variations", models.MuscleLegs, bw, beg),
	},
}

// Fallback returns a last-resort exercise for muscle at the given 1-based
// order. The list is indexed with order modulo its length.
func Fallback(muscle string, order int) models.Exercise {
	list, ok := fallbacks[muscle]
	if !ok {
		list = []models.Exercise{ex("fb-g", "Full Body Movement", muscle, bw, beg)}
	}
	return list[order%len(list)]
}

// Search filters all by an optional muscle label and an optional equipment
// type ("with" or "without"). Empty arguments match everything.
func Search(all []models.Exercise, muscle, equipmentType string) []models.Exercise {
	muscle = CanonicalMuscle(strings.ToLower(strings.TrimSpace(muscle)))
	out := []models.Exercise{}
	for _, e := range all {
		if muscle != "" && !strings.EqualFold(e.Muscle, muscle) {
			continue
		}
		if equipmentType != "" && !MatchesEquipment(e, equipmentType == models.EquipmentWithout) {
			continue
		}
		out = append(out, e)
	}
	return out
}
