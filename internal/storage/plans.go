package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/fitlife/internal/models"
)

// InsertPlan stores a custom plan.
func (db *DB) InsertPlan(ctx context.Context, p models.Plan) error {
	exercises, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("encoding plan exercises: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO plans (id, user_id, title, difficulty, duration, exercises, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.UserID, p.Title, p.Difficulty, p.Duration, exercises, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// ListPlans returns a user's custom plans in creation order.
func (db *DB) ListPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, title, difficulty, duration, exercises, created_at
		 FROM plans WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetPlan returns one of a user's plans, or nil.
func (db *DB) GetPlan(ctx context.Context, userID int, id string) (*models.Plan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, title, difficulty, duration, exercises, created_at
		 FROM plans WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlan removes one of a user's plans.
func (db *DB) DeletePlan(ctx context.Context, userID int, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanPlan(row pgx.Row) (models.Plan, error) {
	var p models.Plan
	var exercises []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Difficulty, &p.Duration, &exercises, &p.CreatedAt); err != nil {
		return p, fmt.Errorf("scanning plan: %w", err)
	}
	if err := json.Unmarshal(exercises, &p.Exercises); err != nil {
		return p, fmt.Errorf("decoding plan exercises: %w", err)
	}
	return p, nil
}
