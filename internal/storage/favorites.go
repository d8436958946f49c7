package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/fitlife/internal/models"
)

// AddFavoriteWorkout saves a workout set for a user. It reports false when
// the set was already a favourite.
func (db *DB) AddFavoriteWorkout(ctx context.Context, userID int, set models.WorkoutSet) (bool, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return false, fmt.Errorf("encoding workout: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO favorite_workouts (user_id, workout_id, workout) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, set.ID, payload)
	if err != nil {
		return false, fmt.Errorf("inserting favourite workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveFavoriteWorkout deletes a favourite workout.
func (db *DB) RemoveFavoriteWorkout(ctx context.Context, userID int, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM favorite_workouts WHERE user_id = $1 AND workout_id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("deleting favourite workout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFavoriteWorkouts returns a user's favourite workouts, newest first.
func (db *DB) ListFavoriteWorkouts(ctx context.Context, userID int) ([]models.FavoriteWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT workout, added_at FROM favorite_workouts WHERE user_id = $1 ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favourite workouts: %w", err)
	}
	defer rows.Close()

	var result []models.FavoriteWorkout
	for rows.Next() {
		f := models.FavoriteWorkout{UserID: userID}
		var payload []byte
		if err := rows.Scan(&payload, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning favourite workout: %w", err)
		}
		if err := json.Unmarshal(payload, &f.Workout); err != nil {
			return nil, fmt.Errorf("decoding favourite workout: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// AddFavoriteExercise saves a catalog exercise for a user.
func (db *DB) AddFavoriteExercise(ctx context.Context, userID int, e models.Exercise) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("encoding exercise: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO favorite_exercises (user_id, exercise_id, exercise) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, e.ID, payload)
	if err != nil {
		return false, fmt.Errorf("inserting favourite exercise: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveFavoriteExercise deletes a favourite exercise.
func (db *DB) RemoveFavoriteExercise(ctx context.Context, userID int, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM favorite_exercises WHERE user_id = $1 AND exercise_id = $2`, userID, id)
	if err != nil {
		return false, fmt.Errorf("deleting favourite exercise: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFavoriteExercises returns a user's favourite exercises, newest first.
func (db *DB) ListFavoriteExercises(ctx context.Context, userID int) ([]models.FavoriteExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, added_at FROM favorite_exercises WHERE user_id = $1 ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favourite exercises: %w", err)
	}
	defer rows.Close()

	var result []models.FavoriteExercise
	for rows.Next() {
		f := models.FavoriteExercise{UserID: userID}
		var payload []byte
		if err := rows.Scan(&payload, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning favourite exercise: %w", err)
		}
		if err := json.Unmarshal(payload, &f.Exercise); err != nil {
			return nil, fmt.Errorf("decoding favourite exercise: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
