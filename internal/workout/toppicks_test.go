package workout

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/claude/fitlife/internal/models"
)

// TestTopPicksShape checks the three curated sets and their metadata.
func TestTopPicksShape(t *testing.T) {
	g := newTestGenerator()
	sets := g.TopPicks(context.Background())
	if len(sets) != 3 {
		t.Fatalf("got %d sets, want 3", len(sets))
	}

	wantNames := []string{"Full Body Energizer", "Upper Body Strength", "Core Crusher"}
	wantMuscle := []string{"full", "upper", "core"}
	wantDifficulty := []string{"beginner", "intermediate", "intermediate"}
	wantPrefix := []string{"top-pick-full-t1-1", "top-pick-upper-t1-2", "top-pick-core-t1-3"}
	for i, s := range sets {
		if s.SetName != wantNames[i] || s.Muscle != wantMuscle[i] || s.Difficulty != wantDifficulty[i] {
			t.Errorf("set %d = %s/%s/%s", i, s.SetName, s.Muscle, s.Difficulty)
		}
		if s.ID != wantPrefix[i] {
			t.Errorf("set %d id = %q, want %q", i, s.ID, wantPrefix[i])
		}
		if !s.IsTopPick || !s.IsBodyweight || s.EquipmentType != "without" {
			t.Errorf("set %d flags = %+v", i, s)
		}
		if len(s.Exercises) != 4 {
			t.Errorf("set %d has %d exercises", i, len(s.Exercises))
		}
		for _, e := range s.Exercises {
			if !e.IsBodyweight || e.Duration == nil {
				t.Errorf("%s not built as bodyweight", e.Name)
			}
		}
	}
	for _, e := range sets[2].Exercises {
		if e.Muscle != models.MuscleCore {
			t.Errorf("core pick contains %s (%s)", e.Name, e.Muscle)
		}
	}
}

// TestTopPicksSeeded checks the same seed gives the same picks.
func TestTopPicksSeeded(t *testing.T) {
	names := func(seed uint64) string {
		g := newTestGenerator(WithRand(rand.New(rand.NewPCG(seed, seed))))
		var out []string
		for _, s := range g.TopPicks(context.Background()) {
			for _, e := range s.Exercises {
				out = append(out, e.Name)
			}
		}
		return strings.Join(out, ",")
	}
	if a, b := names(7), names(7); a != b {
		t.Errorf("seeded picks differ:\n%s\n%s", a, b)
	}
}

// TestTopPicksCatalogFailure checks a failing catalog serves the fixed
// fallback picks.
func TestTopPicksCatalogFailure(t *testing.T) {
	g := newTestGenerator(WithSource(failingSource{}))
	sets := g.TopPicks(context.Background())
	if len(sets) != 3 || sets[0].SetName != "Full Body Blast" {
		t.Fatalf("got %d sets, first %q", len(sets), sets[0].SetName)
	}
}

// TestTopPicksEmptyCatalog checks an empty catalog also yields the fallback.
func TestTopPicksEmptyCatalog(t *testing.T) {
	g := newTestGenerator(WithSource(sliceSource{}))
	if sets := g.TopPicks(context.Background()); len(sets) != 3 || sets[2].SetName != "Core Crusher" {
		t.Errorf("unexpected fallback: %d sets", len(sets))
	}
}

// TestFallbackTopPicksFixture pins the fallback data.
func TestFallbackTopPicksFixture(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sets := FallbackTopPicks(Sequence("f"), now)
	if len(sets) != 3 {
		t.Fatalf("got %d sets", len(sets))
	}

	tests := []struct {
		id, name, firstID, difficulty, muscle, focus string
		estimate                                     int
	}{
		{"top-pick-1-f1", "Full Body Blast", "fb-1-f1", "beginner", "full", "balanced", 20},
		{"top-pick-2-f2", "Upper Body Strength", "ub-1-f2", "intermediate", "upper", "strength", 25},
		{"top-pick-3-f3", "Core Crusher", "core-1-f3", "intermediate", "core", "endurance", 18},
	}
	for i, tt := range tests {
		s := sets[i]
		if s.ID != tt.id || s.SetName != tt.name || s.Exercises[0].ID != tt.firstID {
			t.Errorf("set %d ids = %s %s %s", i, s.ID, s.SetName, s.Exercises[0].ID)
		}
		if s.Difficulty != tt.difficulty || s.Muscle != tt.muscle || s.SetFocus != tt.focus || s.EstimatedTime != tt.estimate {
			t.Errorf("set %d meta = %+v", i, s)
		}
		if s.TotalExercises != 4 || !s.CreatedAt.Equal(now) {
			t.Errorf("set %d total=%d created=%v", i, s.TotalExercises, s.CreatedAt)
		}
	}

	plank := sets[0].Exercises[2]
	if plank.Name != "Plank" || plank.Reps.String() != "30s" || plank.Rest != "45s" || plank.Duration == nil || *plank.Duration != 30 {
		t.Errorf("plank = %+v", plank)
	}
	taps := sets[1].Exercises[3]
	if taps.Reps.Kind != models.RepsCount || taps.Reps.Count != 20 || taps.Duration != nil {
		t.Errorf("shoulder taps = %+v", taps)
	}
	if sets[2].Exercises[3].Instructions != "In plank position, bring knees to chest in running motion." {
		t.Errorf("mountain climbers instructions = %q", sets[2].Exercises[3].Instructions)
	}
}
