package auth

import (
	"context"
	"sync"

	"github.com/claude/fitlife/internal/models"
)

// Repository stores user accounts. Find methods return nil, nil when no
// user matches. Insert keeps a non-zero ID and otherwise assigns the
// highest existing ID plus one.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u models.User) (models.User, error)
}

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []models.User
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username }), nil
}

func (m *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email }), nil
}

func (m *MemoryRepository) find(match func(models.User) bool) *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (m *MemoryRepository) Insert(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		for _, existing := range m.users {
			u.ID = max(u.ID, existing.ID)
		}
		u.ID++
	}
	m.users = append(m.users, u)
	return u, nil
}
