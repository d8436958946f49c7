// Package live holds the guided sessions and cardio tracks that are in
// progress, drives their clocks and records them to history when they end.
package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/session"
)

// ErrNotFound is returned for unknown or already stopped entries.
var ErrNotFound = errors.New("not found")

// ErrUnknownCommand is returned for a command name the entry does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Recorder persists finished activities.
type Recorder interface {
	SaveSession(ctx context.Context, rec models.SessionRecord) error
	SaveCardio(ctx context.Context, rec models.CardioRecord) error
}

// Session commands.
const (
	CmdStart            = "start"
	CmdCompleteSet      = "complete-set"
	CmdSkipRest         = "skip-rest"
	CmdCompleteExercise = "complete-exercise"
	CmdCompleteEarly    = "complete-early"
	CmdPause            = "pause"
	CmdResume           = "resume"
	CmdStop             = "stop"
)

// SessionView is the externally visible state of a live session.
type SessionView struct {
	ID       string                  `json:"id"`
	UserID   int                     `json:"user_id"`
	SetID    string                  `json:"set_id"`
	SetName  string                  `json:"set_name"`
	Current  *models.WorkoutExercise `json:"current_exercise,omitempty"`
	Progress session.Progress        `json:"progress"`
	Summary  *models.SessionSummary  `json:"summary,omitempty"`
	RecordID *uuid.UUID              `json:"record_id,omitempty"`
}

// TrackView is the externally visible state of a live cardio track.
type TrackView struct {
	ID       string                `json:"id"`
	UserID   int                   `json:"user_id"`
	Live     cardio.Snapshot       `json:"live"`
	Summary  *models.CardioSummary `json:"summary,omitempty"`
	RecordID *uuid.UUID            `json:"record_id,omitempty"`
}

type sessionEntry struct {
	mu       sync.Mutex
	id       string
	userID   int
	s        *session.Session
	touched  time.Time
	recordID *uuid.UUID
}

type trackEntry struct {
	mu       sync.Mutex
	id       string
	userID   int
	t        *cardio.Track
	touched  time.Time
	removed  bool
	recordID uuid.UUID
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithClock sets the clock used for idle bookkeeping and new tracks.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithWeight sets the body weight passed to new tracks.
func WithWeight(kg float64) Option {
	return func(r *Registry) { r.weightKg = kg }
}

// WithIndoorSpeed sets the treadmill speed of indoor tracks started without
// one.
func WithIndoorSpeed(kmh float64) Option {
	return func(r *Registry) { r.speedKmh = kmh }
}

// WithIDs sets the entry id source.
func WithIDs(ids func() string) Option {
	return func(r *Registry) { r.ids = ids }
}

// Registry is the set of live sessions and tracks. Each entry has its own
// lock so transitions on one entry never wait for another.
type Registry struct {
	rec      Recorder
	log      *slog.Logger
	now      func() time.Time
	ids      func() string
	weightKg float64
	speedKmh float64

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	tracks   map[string]*trackEntry
}

// NewRegistry returns an empty registry writing finished activities to rec.
func NewRegistry(rec Recorder, opts ...Option) *Registry {
	r := &Registry{
		rec:      rec,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		ids:      uuid.NewString,
		weightKg: cardio.DefaultWeightKg,
		speedKmh: cardio.DefaultIndoorSpeedKmh,
		sessions: make(map[string]*sessionEntry),
		tracks:   make(map[string]*trackEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Counts returns the number of live sessions and tracks.
func (r *Registry) Counts() (sessions, tracks int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), len(r.tracks)
}

// StartSession registers a guided session over set.
func (r *Registry) StartSession(userID int, set models.WorkoutSet) (SessionView, error) {
	s := session.New(set)
	if err := s.Err(); err != nil {
		return SessionView{}, err
	}
	e := &sessionEntry{id: r.ids(), userID: userID, s: s, touched: r.now()}

	r.mu.Lock()
	r.sessions[e.id] = e
	r.mu.Unlock()

	r.log.Info("session started", "id", e.id, "user", userID, "set", set.ID, "exercises", len(set.Exercises))
	return e.view(), nil
}

// Session returns the state of a live session owned by userID.
func (r *Registry) Session(userID int, id string) (SessionView, error) {
	e, err := r.sessionEntry(userID, id)
	if err != nil {
		return SessionView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view(), nil
}

// SessionCommand applies cmd to a live session. The bool reports whether
// the command was valid in the current phase.
func (r *Registry) SessionCommand(ctx context.Context, userID int, id, cmd string) (SessionView, bool, error) {
	e, err := r.sessionEntry(userID, id)
	if err != nil {
		return SessionView{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var applied bool
	switch cmd {
	case CmdStart:
		applied = e.s.StartExercise()
	case CmdCompleteSet:
		applied = e.s.CompleteSet()
	case CmdSkipRest:
		applied = e.s.SkipRest()
	case CmdCompleteExercise:
		applied = e.s.CompleteExercise()
	case CmdCompleteEarly:
		applied = e.s.CompleteEarly()
	case CmdPause:
		applied = e.s.Pause()
	case CmdResume:
		applied = e.s.Resume()
	default:
		return SessionView{}, false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	e.touched = r.now()
	if err := r.recordSession(ctx, e); err != nil {
		return e.view(), applied, err
	}
	return e.view(), applied, nil
}

// recordSession saves a completed session once. Callers hold e.mu.
func (r *Registry) recordSession(ctx context.Context, e *sessionEntry) error {
	sum, ok := e.s.Summary()
	if !ok || e.recordID != nil {
		return nil
	}
	rec := models.SessionRecord{ID: uuid.New(), UserID: e.userID, Summary: sum, FinishedAt: r.now()}
	if err := r.rec.SaveSession(ctx, rec); err != nil {
		return fmt.Errorf("saving session %s: %w", e.id, err)
	}
	e.recordID = &rec.ID
	r.log.Info("session completed", "id", e.id, "user", e.userID,
		"exercises", sum.ExercisesCompleted, "seconds", sum.ActualTimeSeconds, "early", sum.CompletedEarly)
	return nil
}

// DiscardSession drops a live session without recording it.
func (r *Registry) DiscardSession(userID int, id string) error {
	if _, err := r.sessionEntry(userID, id); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *Registry) sessionEntry(userID int, id string) (*sessionEntry, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || e.userID != userID {
		return nil, ErrNotFound
	}
	return e, nil
}

func (e *sessionEntry) view() SessionView {
	set := e.s.Set()
	v := SessionView{
		ID:       e.id,
		UserID:   e.userID,
		SetID:    set.ID,
		SetName:  set.SetName,
		Progress: e.s.Snapshot(),
		RecordID: e.recordID,
	}
	if ex, ok := e.s.Current(); ok && !e.s.Done() {
		v.Current = &ex
	}
	if sum, ok := e.s.Summary(); ok {
		v.Summary = &sum
	}
	return v
}

// StartTrack registers an idle cardio track. A non-zero speed sets the
// initial treadmill speed of indoor tracks; otherwise the registry default
// applies.
func (r *Registry) StartTrack(userID int, activity string, indoorSpeedKmh float64) TrackView {
	if indoorSpeedKmh <= 0 {
		indoorSpeedKmh = r.speedKmh
	}
	opts := []cardio.Option{
		cardio.WithClock(r.now),
		cardio.WithWeight(r.weightKg),
		cardio.WithIndoorSpeed(indoorSpeedKmh),
	}
	e := &trackEntry{id: r.ids(), userID: userID, t: cardio.NewTrack(activity, opts...), touched: r.now()}

	r.mu.Lock()
	r.tracks[e.id] = e
	r.mu.Unlock()

	r.log.Info("track created", "id", e.id, "user", userID, "activity", activity, "indoor", e.t.Indoor())
	return e.view()
}

// Track returns the live state of a track owned by userID.
func (r *Registry) Track(userID int, id string) (TrackView, error) {
	e, err := r.trackEntry(userID, id)
	if err != nil {
		return TrackView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return TrackView{}, ErrNotFound
	}
	e.t.Tick()
	return e.view(), nil
}

// TrackCommand applies start, pause or resume to a track.
func (r *Registry) TrackCommand(userID int, id, cmd string) (TrackView, bool, error) {
	return r.withTrack(userID, id, func(e *trackEntry) (bool, error) {
		switch cmd {
		case CmdStart:
			if err := e.t.Start(); err != nil {
				return false, err
			}
			return true, nil
		case CmdPause:
			return e.t.Pause(), nil
		case CmdResume:
			return e.t.Resume(), nil
		default:
			return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		}
	})
}

// AddSamples feeds GPS samples to a track and returns how many were
// recorded. Samples without a timestamp are stamped with the current time.
func (r *Registry) AddSamples(userID int, id string, samples []models.Coordinate) (TrackView, int, error) {
	var n int
	v, _, err := r.withTrack(userID, id, func(e *trackEntry) (bool, error) {
		for _, c := range samples {
			if c.Timestamp.IsZero() {
				c.Timestamp = r.now()
			}
			if e.t.AddSample(c) {
				n++
			}
		}
		return n > 0, nil
	})
	return v, n, err
}

// SetStatus records the GPS status reported for a track.
func (r *Registry) SetStatus(userID int, id string, status cardio.Status) (TrackView, error) {
	v, _, err := r.withTrack(userID, id, func(e *trackEntry) (bool, error) {
		e.t.SetStatus(status)
		return true, nil
	})
	return v, err
}

// SetSpeed changes the treadmill speed of an indoor track that is not
// tracking.
func (r *Registry) SetSpeed(userID int, id string, kmh float64) (TrackView, error) {
	v, _, err := r.withTrack(userID, id, func(e *trackEntry) (bool, error) {
		return true, e.t.SetIndoorSpeed(kmh)
	})
	return v, err
}

// StopTrack stops a track, records it and removes it from the registry. A
// failed save leaves the stopped entry in place so the stop can be retried;
// the retry returns the same summary under the same record id.
func (r *Registry) StopTrack(ctx context.Context, userID int, id string) (TrackView, error) {
	e, err := r.trackEntry(userID, id)
	if err != nil {
		return TrackView{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return TrackView{}, ErrNotFound
	}

	sum := e.t.Stop()
	e.touched = r.now()
	if e.recordID == uuid.Nil {
		e.recordID = uuid.New()
	}

	v := e.view()
	v.Summary = &sum

	rec := models.CardioRecord{ID: e.recordID, UserID: userID, Summary: sum}
	if err := r.rec.SaveCardio(ctx, rec); err != nil {
		return v, fmt.Errorf("saving track %s: %w", id, err)
	}

	e.removed = true
	r.mu.Lock()
	delete(r.tracks, id)
	r.mu.Unlock()

	v.RecordID = &rec.ID
	r.log.Info("track stopped", "id", id, "user", userID, "activity", sum.Activity,
		"distance_km", sum.DistanceKm, "seconds", sum.DurationSeconds)
	return v, nil
}

func (r *Registry) withTrack(userID int, id string, fn func(*trackEntry) (bool, error)) (TrackView, bool, error) {
	e, err := r.trackEntry(userID, id)
	if err != nil {
		return TrackView{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return TrackView{}, false, ErrNotFound
	}
	applied, err := fn(e)
	e.touched = r.now()
	if err != nil {
		return e.view(), false, err
	}
	return e.view(), applied, nil
}

func (r *Registry) trackEntry(userID int, id string) (*trackEntry, error) {
	r.mu.RLock()
	e, ok := r.tracks[id]
	r.mu.RUnlock()
	if !ok || e.userID != userID {
		return nil, ErrNotFound
	}
	return e, nil
}

func (e *trackEntry) view() TrackView {
	return TrackView{ID: e.id, UserID: e.userID, Live: e.t.Snapshot()}
}

// Tick advances every live session by elapsed and refreshes every track.
// Sessions that complete during the tick are recorded.
func (r *Registry) Tick(ctx context.Context, elapsed time.Duration) {
	r.mu.RLock()
	sessions := make([]*sessionEntry, 0, len(r.sessions))
	for _, e := range r.sessions {
		sessions = append(sessions, e)
	}
	tracks := make([]*trackEntry, 0, len(r.tracks))
	for _, e := range r.tracks {
		tracks = append(tracks, e)
	}
	r.mu.RUnlock()

	for _, e := range sessions {
		e.mu.Lock()
		if !e.s.Done() {
			e.s.Tick(elapsed)
			if err := r.recordSession(ctx, e); err != nil {
				r.log.Error("recording session", "id", e.id, "error", err)
			}
		}
		e.mu.Unlock()
	}
	for _, e := range tracks {
		e.mu.Lock()
		if !e.removed {
			e.t.Tick()
		}
		e.mu.Unlock()
	}
}

// Sweep drops entries untouched for longer than idle. Finished sessions are
// dropped on the same schedule. Tracks that are still tracking are kept
// regardless of age. It returns the number removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	var staleSessions, staleTracks []string
	r.mu.RLock()
	sessions := make([]*sessionEntry, 0, len(r.sessions))
	for _, e := range r.sessions {
		sessions = append(sessions, e)
	}
	tracks := make([]*trackEntry, 0, len(r.tracks))
	for _, e := range r.tracks {
		tracks = append(tracks, e)
	}
	r.mu.RUnlock()

	// Lock order is entry before registry; see StopTrack.
	for _, e := range sessions {
		e.mu.Lock()
		if e.touched.Before(cutoff) {
			staleSessions = append(staleSessions, e.id)
		}
		e.mu.Unlock()
	}
	for _, e := range tracks {
		e.mu.Lock()
		if !e.removed && e.t.State() != cardio.StateTracking && e.touched.Before(cutoff) {
			e.removed = true
			staleTracks = append(staleTracks, e.id)
		}
		e.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range staleSessions {
		delete(r.sessions, id)
	}
	for _, id := range staleTracks {
		delete(r.tracks, id)
	}
	return len(staleSessions) + len(staleTracks)
}
