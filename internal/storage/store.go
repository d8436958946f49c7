package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitlife/internal/auth"
	"github.com/claude/fitlife/internal/live"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/plans"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// defaultLimit caps history listings when the caller passes no limit.
const defaultLimit = 50

// Store is the persistence surface shared by the Postgres and SQLite
// backends.
type Store interface {
	auth.Repository
	plans.Store
	live.Recorder

	ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRecord, error)
	ListCardio(ctx context.Context, userID, limit int) ([]models.CardioRecord, error)
	GetCardio(ctx context.Context, userID int, id uuid.UUID) (models.CardioRecord, error)
	GetActivityStats(ctx context.Context, userID int) (*ActivityStats, error)

	AddFavoriteWorkout(ctx context.Context, userID int, set models.WorkoutSet) (bool, error)
	RemoveFavoriteWorkout(ctx context.Context, userID int, id string) (bool, error)
	ListFavoriteWorkouts(ctx context.Context, userID int) ([]models.FavoriteWorkout, error)
	AddFavoriteExercise(ctx context.Context, userID int, e models.Exercise) (bool, error)
	RemoveFavoriteExercise(ctx context.Context, userID int, id string) (bool, error)
	ListFavoriteExercises(ctx context.Context, userID int) ([]models.FavoriteExercise, error)

	InsertImportLog(ctx context.Context, log ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log ImportLog) error
	QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error)
	IsFileImported(ctx context.Context, userID int, hash string) (bool, error)
	MarkFileImported(ctx context.Context, userID int, hash, path string, recordID uuid.UUID) error

	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLite)(nil)
)

// ImportLog is the outcome of one GPX import run.
type ImportLog struct {
	ID            int64     `json:"id"`
	UserID        int       `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	FilesSeen     int       `json:"files_seen"`
	FilesImported int       `json:"files_imported"`
	FilesSkipped  int       `json:"files_skipped"`
	DurationMs    *int      `json:"duration_ms"`
	ErrorMessage  *string   `json:"error_message"`
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}
