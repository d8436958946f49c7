// Package plans manages user-built workout plans next to the predefined
// ones.
package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitlife/internal/catalog"
	"github.com/claude/fitlife/internal/models"
)

var (
	ErrTitleRequired = errors.New("plan title is required")
	ErrNoExercises   = errors.New("plan needs at least one exercise")
	ErrNotFound      = errors.New("plan not found")
	ErrReadOnly      = errors.New("predefined plans cannot be deleted")
)

// Store persists custom plans. GetPlan returns nil, nil when absent.
type Store interface {
	InsertPlan(ctx context.Context, p models.Plan) error
	ListPlans(ctx context.Context, userID int) ([]models.Plan, error)
	GetPlan(ctx context.Context, userID int, id string) (*models.Plan, error)
	DeletePlan(ctx context.Context, userID int, id string) (bool, error)
}

// Service validates and stores plans.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service over store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create validates p and stores it for userID. Blank exercise lines are
// dropped before the emptiness check.
func (s *Service) Create(ctx context.Context, userID int, p models.Plan) (models.Plan, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return models.Plan{}, ErrTitleRequired
	}
	exercises := make([]models.PlanExercise, 0, len(p.Exercises))
	for _, e := range p.Exercises {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		if e.Sets < 1 {
			e.Sets = 1
		}
		exercises = append(exercises, e)
	}
	if len(exercises) == 0 {
		return models.Plan{}, ErrNoExercises
	}

	p.ID = uuid.NewString()
	p.UserID = userID
	p.Exercises = exercises
	p.Predefined = false
	p.CreatedAt = s.now().UTC()
	if err := s.store.InsertPlan(ctx, p); err != nil {
		return models.Plan{}, fmt.Errorf("storing plan: %w", err)
	}
	return p, nil
}

// List returns the predefined plans followed by the user's plans.
func (s *Service) List(ctx context.Context, userID int) ([]models.Plan, error) {
	custom, err := s.store.ListPlans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return append(catalog.PredefinedPlans(), custom...), nil
}

// Get returns a predefined plan or one of the user's plans.
func (s *Service) Get(ctx context.Context, userID int, id string) (models.Plan, error) {
	for _, p := range catalog.PredefinedPlans() {
		if p.ID == id {
			return p, nil
		}
	}
	p, err := s.store.GetPlan(ctx, userID, id)
	if err != nil {
		return models.Plan{}, fmt.Errorf("getting plan: %w", err)
	}
	if p == nil {
		return models.Plan{}, ErrNotFound
	}
	return *p, nil
}

// Delete removes one of the user's plans.
func (s *Service) Delete(ctx context.Context, userID int, id string) error {
	for _, p := range catalog.PredefinedPlans() {
		if p.ID == id {
			return ErrReadOnly
		}
	}
	ok, err := s.store.DeletePlan(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
