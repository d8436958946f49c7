package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (user_id, source, status, files_seen, files_imported, files_skipped,
		 duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.UserID, log.Source, log.Status, log.FilesSeen, log.FilesImported, log.FilesSkipped,
		log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, files_seen = $3, files_imported = $4, files_skipped = $5,
		 duration_ms = $6, error_message = $7
		 WHERE id = $1`,
		id, log.Status, log.FilesSeen, log.FilesImported, log.FilesSkipped,
		log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, source, status, files_seen, files_imported, files_skipped,
		 duration_ms, error_message
		 FROM import_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Status,
			&l.FilesSeen, &l.FilesImported, &l.FilesSkipped, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// IsFileImported reports whether a file with this content hash was already
// imported for the user.
func (db *DB) IsFileImported(ctx context.Context, userID int, hash string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE user_id = $1 AND hash = $2`, userID, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking imported file: %w", err)
	}
	return count > 0, nil
}

// MarkFileImported records that a file produced the given cardio record.
func (db *DB) MarkFileImported(ctx context.Context, userID int, hash, path string, recordID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO imported_files (user_id, hash, path, record_id) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, hash) DO UPDATE SET path = EXCLUDED.path, record_id = EXCLUDED.record_id`,
		userID, hash, path, recordID)
	if err != nil {
		return fmt.Errorf("marking imported file: %w", err)
	}
	return nil
}
