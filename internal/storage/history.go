package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/fitlife/internal/models"
)

// SaveSession inserts a completed session. Duplicate IDs are ignored.
func (db *DB) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	s := rec.Summary
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO session_history (id, user_id, set_id, set_name, difficulty, exercises_completed,
		 total_time_minutes, actual_time_seconds, completed_early, calories, finished_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		rec.ID, rec.UserID, s.SetID, s.SetName, s.Difficulty, s.ExercisesCompleted,
		s.TotalTimeMinutes, s.ActualTimeSeconds, s.CompletedEarly, s.Calories, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// ListSessions returns a user's sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, set_id, set_name, difficulty, exercises_completed,
		 total_time_minutes, actual_time_seconds, completed_early, calories, finished_at
		 FROM session_history
		 WHERE user_id = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRecord
	for rows.Next() {
		var r models.SessionRecord
		s := &r.Summary
		if err := rows.Scan(&r.ID, &r.UserID, &s.SetID, &s.SetName, &s.Difficulty, &s.ExercisesCompleted,
			&s.TotalTimeMinutes, &s.ActualTimeSeconds, &s.CompletedEarly, &s.Calories, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SaveCardio inserts a stopped cardio activity with its route.
func (db *DB) SaveCardio(ctx context.Context, rec models.CardioRecord) error {
	route, err := json.Marshal(rec.Summary.Route)
	if err != nil {
		return fmt.Errorf("encoding route: %w", err)
	}
	s := rec.Summary
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO cardio_history (id, user_id, activity, distance_km, duration_seconds, calories,
		 pace, is_indoor, started_at, ended_at, route)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		rec.ID, rec.UserID, s.Activity, s.DistanceKm, s.DurationSeconds, s.Calories,
		s.Pace, s.IsIndoor, s.StartedAt, s.EndedAt, route)
	if err != nil {
		return fmt.Errorf("inserting cardio: %w", err)
	}
	return nil
}

const cardioColumns = `id, user_id, activity, distance_km, duration_seconds, calories,
	pace, is_indoor, started_at, ended_at, route`

// ListCardio returns a user's cardio activities, newest first.
func (db *DB) ListCardio(ctx context.Context, userID, limit int) ([]models.CardioRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+cardioColumns+`
		 FROM cardio_history
		 WHERE user_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying cardio: %w", err)
	}
	defer rows.Close()

	var result []models.CardioRecord
	for rows.Next() {
		r, err := scanCardio(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetCardio returns one cardio activity owned by userID.
func (db *DB) GetCardio(ctx context.Context, userID int, id uuid.UUID) (models.CardioRecord, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+cardioColumns+` FROM cardio_history WHERE id = $1 AND user_id = $2`,
		id, userID)
	r, err := scanCardio(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CardioRecord{}, ErrNotFound
	}
	return r, err
}

func scanCardio(row pgx.Row) (models.CardioRecord, error) {
	var r models.CardioRecord
	var route []byte
	s := &r.Summary
	if err := row.Scan(&r.ID, &r.UserID, &s.Activity, &s.DistanceKm, &s.DurationSeconds, &s.Calories,
		&s.Pace, &s.IsIndoor, &s.StartedAt, &s.EndedAt, &route); err != nil {
		return r, fmt.Errorf("scanning cardio: %w", err)
	}
	if err := decodeRoute(route, s); err != nil {
		return r, err
	}
	return r, nil
}

// decodeRoute fills the route and its endpoints from stored JSON.
func decodeRoute(raw []byte, s *models.CardioSummary) error {
	s.Route = []models.Coordinate{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Route); err != nil {
			return fmt.Errorf("decoding route: %w", err)
		}
	}
	if n := len(s.Route); n > 0 {
		first, last := s.Route[0], s.Route[n-1]
		s.StartPoint, s.EndPoint = &first, &last
	}
	return nil
}
