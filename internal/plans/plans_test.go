package plans

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/claude/fitlife/internal/models"
)

type memStore struct{ plans []models.Plan }

func (m *memStore) InsertPlan(_ context.Context, p models.Plan) error {
	m.plans = append(m.plans, p)
	return nil
}

func (m *memStore) ListPlans(_ context.Context, userID int) ([]models.Plan, error) {
	var out []models.Plan
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetPlan(_ context.Context, userID int, id string) (*models.Plan, error) {
	for _, p := range m.plans {
		if p.UserID == userID && p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) DeletePlan(_ context.Context, userID int, id string) (bool, error) {
	n := len(m.plans)
	m.plans = slices.DeleteFunc(m.plans, func(p models.Plan) bool { return p.UserID == userID && p.ID == id })
	return len(m.plans) < n, nil
}

// TestCreateValidation checks the title and exercise requirements.
func TestCreateValidation(t *testing.T) {
	s := NewService(&memStore{})
	ctx := context.Background()
	tests := []struct {
		name string
		plan models.Plan
		want error
	}{
		{"blank title", models.Plan{Title: "  ", Exercises: []models.PlanExercise{{Name: "Squats"}}}, ErrTitleRequired},
		{"no exercises", models.Plan{Title: "Mine"}, ErrNoExercises},
		{"only blank exercises", models.Plan{Title: "Mine", Exercises: []models.PlanExercise{{Name: " "}}}, ErrNoExercises},
	}
	for _, tt := range tests {
		if _, err := s.Create(ctx, 1, tt.plan); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

// TestCreateListGetDelete checks a custom plan round trip next to the
// predefined plans.
func TestCreateListGetDelete(t *testing.T) {
	s := NewService(&memStore{})
	ctx := context.Background()

	p, err := s.Create(ctx, 4, models.Plan{
		Title:     " Morning ",
		Exercises: []models.PlanExercise{{Name: "Squats", Sets: 0, Reps: models.Count(10), Rest: "30s"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.Title != "Morning" || p.UserID != 4 || p.Exercises[0].Sets != 1 {
		t.Errorf("created = %+v", p)
	}

	list, _ := s.List(ctx, 4)
	if len(list) != 4 || !list[0].Predefined || list[3].ID != p.ID {
		t.Errorf("list = %+v", list)
	}
	if other, _ := s.List(ctx, 5); len(other) != 3 {
		t.Errorf("other user sees %d plans", len(other))
	}

	if got, err := s.Get(ctx, 4, p.ID); err != nil || got.Title != "Morning" {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if got, err := s.Get(ctx, 9, "2"); err != nil || got.Title != "Lower Body Strength" {
		t.Errorf("Get predefined = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, 5, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get as other user = %v", err)
	}

	if err := s.Delete(ctx, 4, "1"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete predefined = %v", err)
	}
	if err := s.Delete(ctx, 4, p.ID); err != nil {
		t.Errorf("Delete = %v", err)
	}
	if err := s.Delete(ctx, 4, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v", err)
	}
}
