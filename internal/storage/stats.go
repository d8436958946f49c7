package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ActivityStats holds aggregate statistics about a user's stored activity.
type ActivityStats struct {
	TotalSessions    int64              `json:"total_sessions"`
	SessionSeconds   int64              `json:"session_seconds"`
	SessionCalories  int64              `json:"session_calories"`
	TotalCardio      int64              `json:"total_cardio"`
	CardioSeconds    int64              `json:"cardio_seconds"`
	CardioDistanceKm float64            `json:"cardio_distance_km"`
	CardioCalories   int64              `json:"cardio_calories"`
	EarliestActivity *time.Time         `json:"earliest_activity"`
	LatestActivity   *time.Time         `json:"latest_activity"`
	CardioByActivity []ActivityTypeStat `json:"cardio_by_activity"`
}

// ActivityTypeStat holds summary stats for a single cardio activity kind.
type ActivityTypeStat struct {
	Activity      string  `json:"activity"`
	Count         int64   `json:"count"`
	TotalDuration int64   `json:"total_duration_sec"`
	TotalDistance float64 `json:"total_distance_km"`
}

// GetActivityStats returns aggregate statistics for a user's history.
func (db *DB) GetActivityStats(ctx context.Context, userID int) (*ActivityStats, error) {
	stats := &ActivityStats{CardioByActivity: []ActivityTypeStat{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(actual_time_seconds), 0), COALESCE(SUM(calories), 0)
		 FROM session_history WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.SessionSeconds, &stats.SessionCalories)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(distance_km), 0), COALESCE(SUM(calories), 0)
		 FROM cardio_history WHERE user_id = $1`, userID,
	).Scan(&stats.TotalCardio, &stats.CardioSeconds, &stats.CardioDistanceKm, &stats.CardioCalories)
	if err != nil {
		return nil, fmt.Errorf("counting cardio: %w", err)
	}

	// Date range across both histories
	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(t), MAX(t) FROM (
			SELECT finished_at AS t FROM session_history WHERE user_id = $1
			UNION ALL
			SELECT started_at FROM cardio_history WHERE user_id = $1
		) sub`, userID,
	).Scan(&stats.EarliestActivity, &stats.LatestActivity)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT activity, COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(distance_km), 0)
		 FROM cardio_history
		 WHERE user_id = $1
		 GROUP BY activity
		 ORDER BY COUNT(*) DESC, activity`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cardio by activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ActivityTypeStat
		if err := rows.Scan(&s.Activity, &s.Count, &s.TotalDuration, &s.TotalDistance); err != nil {
			return nil, fmt.Errorf("scanning activity stat: %w", err)
		}
		stats.CardioByActivity = append(stats.CardioByActivity, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetActivityStats returns aggregate statistics for a user's history.
func (s *SQLite) GetActivityStats(ctx context.Context, userID int) (*ActivityStats, error) {
	stats := &ActivityStats{CardioByActivity: []ActivityTypeStat{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(actual_time_seconds), 0), COALESCE(SUM(calories), 0)
		 FROM session_history WHERE user_id = ?`, userID,
	).Scan(&stats.TotalSessions, &stats.SessionSeconds, &stats.SessionCalories)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(distance_km), 0.0), COALESCE(SUM(calories), 0)
		 FROM cardio_history WHERE user_id = ?`, userID,
	).Scan(&stats.TotalCardio, &stats.CardioSeconds, &stats.CardioDistanceKm, &stats.CardioCalories)
	if err != nil {
		return nil, fmt.Errorf("counting cardio: %w", err)
	}

	var earliest, latest sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(t), MAX(t) FROM (
			SELECT finished_at AS t FROM session_history WHERE user_id = ?
			UNION ALL
			SELECT started_at FROM cardio_history WHERE user_id = ?
		)`, userID, userID,
	).Scan(&earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}
	if earliest.Valid {
		t := fromMillis(earliest.Int64)
		stats.EarliestActivity = &t
	}
	if latest.Valid {
		t := fromMillis(latest.Int64)
		stats.LatestActivity = &t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT activity, COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(distance_km), 0.0)
		 FROM cardio_history
		 WHERE user_id = ?
		 GROUP BY activity
		 ORDER BY COUNT(*) DESC, activity`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cardio by activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st ActivityTypeStat
		if err := rows.Scan(&st.Activity, &st.Count, &st.TotalDuration, &st.TotalDistance); err != nil {
			return nil, fmt.Errorf("scanning activity stat: %w", err)
		}
		stats.CardioByActivity = append(stats.CardioByActivity, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
