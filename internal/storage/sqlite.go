package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/fitlife/internal/models"
)

// SQLite is the single-file backend. Timestamps are stored as Unix
// milliseconds and JSON payloads as TEXT.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	gender        TEXT NOT NULL DEFAULT '',
	image         TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	title      TEXT NOT NULL,
	difficulty TEXT NOT NULL DEFAULT '',
	duration   TEXT NOT NULL DEFAULT '',
	exercises  TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS session_history (
	id                  TEXT PRIMARY KEY,
	user_id             INTEGER NOT NULL,
	set_id              TEXT NOT NULL,
	set_name            TEXT NOT NULL DEFAULT '',
	difficulty          TEXT NOT NULL DEFAULT '',
	exercises_completed INTEGER NOT NULL,
	total_time_minutes  INTEGER NOT NULL,
	actual_time_seconds INTEGER NOT NULL,
	completed_early     INTEGER NOT NULL DEFAULT 0,
	calories            INTEGER NOT NULL DEFAULT 0,
	finished_at         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cardio_history (
	id               TEXT PRIMARY KEY,
	user_id          INTEGER NOT NULL,
	activity         TEXT NOT NULL,
	distance_km      REAL NOT NULL,
	duration_seconds INTEGER NOT NULL,
	calories         INTEGER NOT NULL,
	pace             TEXT NOT NULL,
	is_indoor        INTEGER NOT NULL DEFAULT 0,
	started_at       INTEGER NOT NULL,
	ended_at         INTEGER NOT NULL,
	route            TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS favorite_workouts (
	user_id    INTEGER NOT NULL,
	workout_id TEXT NOT NULL,
	workout    TEXT NOT NULL,
	added_at   INTEGER NOT NULL,
	PRIMARY KEY (user_id, workout_id)
);
CREATE TABLE IF NOT EXISTS favorite_exercises (
	user_id     INTEGER NOT NULL,
	exercise_id TEXT NOT NULL,
	exercise    TEXT NOT NULL,
	added_at    INTEGER NOT NULL,
	PRIMARY KEY (user_id, exercise_id)
);
CREATE TABLE IF NOT EXISTS import_logs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id        INTEGER NOT NULL,
	created_at     INTEGER NOT NULL,
	source         TEXT NOT NULL,
	status         TEXT NOT NULL,
	files_seen     INTEGER NOT NULL DEFAULT 0,
	files_imported INTEGER NOT NULL DEFAULT 0,
	files_skipped  INTEGER NOT NULL DEFAULT 0,
	duration_ms    INTEGER,
	error_message  TEXT
);
CREATE TABLE IF NOT EXISTS imported_files (
	user_id     INTEGER NOT NULL,
	hash        TEXT NOT NULL,
	path        TEXT NOT NULL,
	record_id   TEXT NOT NULL,
	imported_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, hash)
);`

// OpenSQLite opens (or creates) the database file at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// --- users ---

func (s *SQLite) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (s *SQLite) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (s *SQLite) findUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email,
		&u.FirstName, &u.LastName, &u.Gender, &u.Image, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

func (s *SQLite) Insert(ctx context.Context, u models.User) (models.User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, gender, image, password_hash)
		VALUES (COALESCE(NULLIF(?, 0), (SELECT COALESCE(MAX(id), 0) + 1 FROM users)), ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Gender, u.Image, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// --- history ---

func (s *SQLite) SaveSession(ctx context.Context, rec models.SessionRecord) error {
	sum := rec.Summary
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO session_history (id, user_id, set_id, set_name, difficulty, exercises_completed,
		 total_time_minutes, actual_time_seconds, completed_early, calories, finished_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID.String(), rec.UserID, sum.SetID, sum.SetName, sum.Difficulty, sum.ExercisesCompleted,
		sum.TotalTimeMinutes, sum.ActualTimeSeconds, sum.CompletedEarly, sum.Calories, millis(rec.FinishedAt))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *SQLite) ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, set_id, set_name, difficulty, exercises_completed,
		 total_time_minutes, actual_time_seconds, completed_early, calories, finished_at
		 FROM session_history
		 WHERE user_id = ?
		 ORDER BY finished_at DESC
		 LIMIT ?`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRecord
	for rows.Next() {
		var r models.SessionRecord
		var id string
		var finished int64
		sum := &r.Summary
		if err := rows.Scan(&id, &r.UserID, &sum.SetID, &sum.SetName, &sum.Difficulty, &sum.ExercisesCompleted,
			&sum.TotalTimeMinutes, &sum.ActualTimeSeconds, &sum.CompletedEarly, &sum.Calories, &finished); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing session id: %w", err)
		}
		r.FinishedAt = fromMillis(finished)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SQLite) SaveCardio(ctx context.Context, rec models.CardioRecord) error {
	route, err := json.Marshal(rec.Summary.Route)
	if err != nil {
		return fmt.Errorf("encoding route: %w", err)
	}
	sum := rec.Summary
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO cardio_history (id, user_id, activity, distance_km, duration_seconds, calories,
		 pace, is_indoor, started_at, ended_at, route)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID.String(), rec.UserID, sum.Activity, sum.DistanceKm, sum.DurationSeconds, sum.Calories,
		sum.Pace, sum.IsIndoor, millis(sum.StartedAt), millis(sum.EndedAt), string(route))
	if err != nil {
		return fmt.Errorf("inserting cardio: %w", err)
	}
	return nil
}

func (s *SQLite) ListCardio(ctx context.Context, userID, limit int) ([]models.CardioRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardioColumns+`
		 FROM cardio_history
		 WHERE user_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying cardio: %w", err)
	}
	defer rows.Close()

	var result []models.CardioRecord
	for rows.Next() {
		r, err := scanSQLiteCardio(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SQLite) GetCardio(ctx context.Context, userID int, id uuid.UUID) (models.CardioRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardioColumns+` FROM cardio_history WHERE id = ? AND user_id = ?`,
		id.String(), userID)
	r, err := scanSQLiteCardio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CardioRecord{}, ErrNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCardio(row scanner) (models.CardioRecord, error) {
	var r models.CardioRecord
	var id, route string
	var started, ended int64
	sum := &r.Summary
	if err := row.Scan(&id, &r.UserID, &sum.Activity, &sum.DistanceKm, &sum.DurationSeconds, &sum.Calories,
		&sum.Pace, &sum.IsIndoor, &started, &ended, &route); err != nil {
		return r, fmt.Errorf("scanning cardio: %w", err)
	}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("parsing cardio id: %w", err)
	}
	sum.StartedAt, sum.EndedAt = fromMillis(started), fromMillis(ended)
	if err := decodeRoute([]byte(route), sum); err != nil {
		return r, err
	}
	return r, nil
}

// --- favourites ---

func (s *SQLite) AddFavoriteWorkout(ctx context.Context, userID int, set models.WorkoutSet) (bool, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return false, fmt.Errorf("encoding workout: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorite_workouts (user_id, workout_id, workout, added_at) VALUES (?, ?, ?, ?)`,
		userID, set.ID, string(payload), millis(s.now()))
	if err != nil {
		return false, fmt.Errorf("inserting favourite workout: %w", err)
	}
	return affected(res)
}

func (s *SQLite) RemoveFavoriteWorkout(ctx context.Context, userID int, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorite_workouts WHERE user_id = ? AND workout_id = ?`, userID, id)
	if err != nil {
		return false, fmt.Errorf("deleting favourite workout: %w", err)
	}
	return affected(res)
}

func (s *SQLite) ListFavoriteWorkouts(ctx context.Context, userID int) ([]models.FavoriteWorkout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT workout, added_at FROM favorite_workouts WHERE user_id = ? ORDER BY added_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favourite workouts: %w", err)
	}
	defer rows.Close()

	var result []models.FavoriteWorkout
	for rows.Next() {
		f := models.FavoriteWorkout{UserID: userID}
		var payload string
		var added int64
		if err := rows.Scan(&payload, &added); err != nil {
			return nil, fmt.Errorf("scanning favourite workout: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &f.Workout); err != nil {
			return nil, fmt.Errorf("decoding favourite workout: %w", err)
		}
		f.AddedAt = fromMillis(added)
		result = append(result, f)
	}
	return result, rows.Err()
}

func (s *SQLite) AddFavoriteExercise(ctx context.Context, userID int, e models.Exercise) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("encoding exercise: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorite_exercises (user_id, exercise_id, exercise, added_at) VALUES (?, ?, ?, ?)`,
		userID, e.ID, string(payload), millis(s.now()))
	if err != nil {
		return false, fmt.Errorf("inserting favourite exercise: %w", err)
	}
	return affected(res)
}

func (s *SQLite) RemoveFavoriteExercise(ctx context.Context, userID int, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorite_exercises WHERE user_id = ? AND exercise_id = ?`, userID, id)
	if err != nil {
		return false, fmt.Errorf("deleting favourite exercise: %w", err)
	}
	return affected(res)
}

func (s *SQLite) ListFavoriteExercises(ctx context.Context, userID int) ([]models.FavoriteExercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise, added_at FROM favorite_exercises WHERE user_id = ? ORDER BY added_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favourite exercises: %w", err)
	}
	defer rows.Close()

	var result []models.FavoriteExercise
	for rows.Next() {
		f := models.FavoriteExercise{UserID: userID}
		var payload string
		var added int64
		if err := rows.Scan(&payload, &added); err != nil {
			return nil, fmt.Errorf("scanning favourite exercise: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &f.Exercise); err != nil {
			return nil, fmt.Errorf("decoding favourite exercise: %w", err)
		}
		f.AddedAt = fromMillis(added)
		result = append(result, f)
	}
	return result, rows.Err()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}

// --- plans ---

func (s *SQLite) InsertPlan(ctx context.Context, p models.Plan) error {
	exercises, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("encoding plan exercises: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plans (id, user_id, title, difficulty, duration, exercises, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		p.ID, p.UserID, p.Title, p.Difficulty, p.Duration, string(exercises), millis(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (s *SQLite) ListPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, difficulty, duration, exercises, created_at
		 FROM plans WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.Plan
	for rows.Next() {
		p, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLite) GetPlan(ctx context.Context, userID int, id string) (*models.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, difficulty, duration, exercises, created_at
		 FROM plans WHERE id = ? AND user_id = ?`, id, userID)
	p, err := scanSQLitePlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLite) DeletePlan(ctx context.Context, userID int, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting plan: %w", err)
	}
	return affected(res)
}

func scanSQLitePlan(row scanner) (models.Plan, error) {
	var p models.Plan
	var exercises string
	var created int64
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Difficulty, &p.Duration, &exercises, &created); err != nil {
		return p, fmt.Errorf("scanning plan: %w", err)
	}
	if err := json.Unmarshal([]byte(exercises), &p.Exercises); err != nil {
		return p, fmt.Errorf("decoding plan exercises: %w", err)
	}
	p.CreatedAt = fromMillis(created)
	return p, nil
}

// --- imports ---

func (s *SQLite) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs (user_id, created_at, source, status, files_seen, files_imported,
		 files_skipped, duration_ms, error_message)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		log.UserID, millis(s.now()), log.Source, log.Status, log.FilesSeen, log.FilesImported,
		log.FilesSkipped, log.DurationMs, log.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading import log id: %w", err)
	}
	return id, nil
}

func (s *SQLite) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE import_logs SET
		 status = ?, files_seen = ?, files_imported = ?, files_skipped = ?,
		 duration_ms = ?, error_message = ?
		 WHERE id = ?`,
		log.Status, log.FilesSeen, log.FilesImported, log.FilesSkipped,
		log.DurationMs, log.ErrorMessage, id)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

func (s *SQLite) QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at, source, status, files_seen, files_imported, files_skipped,
		 duration_ms, error_message
		 FROM import_logs
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		var created int64
		if err := rows.Scan(&l.ID, &l.UserID, &created, &l.Source, &l.Status,
			&l.FilesSeen, &l.FilesImported, &l.FilesSkipped, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		l.CreatedAt = fromMillis(created)
		result = append(result, l)
	}
	return result, rows.Err()
}

func (s *SQLite) IsFileImported(ctx context.Context, userID int, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE user_id = ? AND hash = ?`, userID, hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking imported file: %w", err)
	}
	return count > 0, nil
}

func (s *SQLite) MarkFileImported(ctx context.Context, userID int, hash, path string, recordID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_files (user_id, hash, path, record_id, imported_at) VALUES (?, ?, ?, ?, ?)`,
		userID, hash, path, recordID.String(), millis(s.now()))
	if err != nil {
		return fmt.Errorf("marking imported file: %w", err)
	}
	return nil
}
