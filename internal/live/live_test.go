package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/session"
)

type memRecorder struct {
	mu       sync.Mutex
	sessions []models.SessionRecord
	cardio   []models.CardioRecord
}

func (m *memRecorder) SaveSession(_ context.Context, rec models.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, rec)
	return nil
}

func (m *memRecorder) SaveCardio(_ context.Context, rec models.CardioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cardio = append(m.cardio, rec)
	return nil
}

// flakyRecorder fails cardio saves until failures runs out.
type flakyRecorder struct {
	memRecorder
	failures int
}

func (f *flakyRecorder) SaveCardio(ctx context.Context, rec models.CardioRecord) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("db down")
	}
	return f.memRecorder.SaveCardio(ctx, rec)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestRegistry() (*Registry, *memRecorder, *testClock) {
	rec := &memRecorder{}
	clk := &testClock{t: time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)}
	var n int
	ids := func() string { n++; return fmt.Sprintf("e%d", n) }
	return NewRegistry(rec, WithClock(clk.now), WithIDs(ids), WithLogger(discard())), rec, clk
}

func timedSet(n, duration int) models.WorkoutSet {
	var exercises []models.WorkoutExercise
	for i := range n {
		d := duration
		exercises = append(exercises, models.WorkoutExercise{
			ID: fmt.Sprintf("x%d", i+1), Name: fmt.Sprintf("X%d", i+1),
			Sets: 1, Reps: models.TimedSeconds(d), Rest: "10s", Duration: &d, Order: i + 1,
		})
	}
	return models.WorkoutSet{ID: "set", SetName: "Set", Difficulty: "beginner", IsBodyweight: true,
		EquipmentType: models.EquipmentWithout, Exercises: exercises}
}

// TestStartSessionEmpty checks an empty set is refused.
func TestStartSessionEmpty(t *testing.T) {
	r, _, _ := newTestRegistry()
	if _, err := r.StartSession(1, models.WorkoutSet{}); !errors.Is(err, session.ErrNoExercises) {
		t.Errorf("err = %v", err)
	}
	if s, _ := r.Counts(); s != 0 {
		t.Errorf("sessions = %d", s)
	}
}

// TestSessionCompletesOnTickAndRecordsOnce checks a session finishing under
// the supervisor tick is written to history exactly once.
func TestSessionCompletesOnTickAndRecordsOnce(t *testing.T) {
	r, rec, _ := newTestRegistry()
	ctx := context.Background()
	v, err := r.StartSession(7, timedSet(1, 3))
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, ok, err := r.SessionCommand(ctx, 7, v.ID, CmdStart); err != nil || !ok {
		t.Fatalf("start: %v %v", ok, err)
	}
	for range 5 {
		r.Tick(ctx, time.Second)
	}

	got, err := r.Session(7, v.ID)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.Summary == nil || got.RecordID == nil || got.Progress.Phase != session.PhaseComplete {
		t.Fatalf("view = %+v", got)
	}
	if _, ok, _ := r.SessionCommand(ctx, 7, v.ID, CmdCompleteEarly); ok {
		t.Error("command applied after completion")
	}
	if len(rec.sessions) != 1 || rec.sessions[0].UserID != 7 || rec.sessions[0].Summary.ActualTimeSeconds != 3 {
		t.Errorf("records = %+v", rec.sessions)
	}
}

// TestSessionOwnership checks another user cannot see or drive a session.
func TestSessionOwnership(t *testing.T) {
	r, _, _ := newTestRegistry()
	v, _ := r.StartSession(1, timedSet(3, 30))
	if _, err := r.Session(2, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Session as other user = %v", err)
	}
	if _, _, err := r.SessionCommand(context.Background(), 1, v.ID, "jump"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command = %v", err)
	}
	if err := r.DiscardSession(1, v.ID); err != nil {
		t.Fatalf("DiscardSession: %v", err)
	}
	if _, err := r.Session(1, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after discard = %v", err)
	}
}

// TestCompleteEarlyRecords checks early completion through a command.
func TestCompleteEarlyRecords(t *testing.T) {
	r, rec, _ := newTestRegistry()
	ctx := context.Background()
	v, _ := r.StartSession(1, timedSet(4, 30))
	r.SessionCommand(ctx, 1, v.ID, CmdCompleteExercise)
	got, ok, err := r.SessionCommand(ctx, 1, v.ID, CmdCompleteEarly)
	if err != nil || !ok {
		t.Fatalf("complete-early: %v %v", ok, err)
	}
	if got.Summary.ExercisesCompleted != 2 || !got.Summary.CompletedEarly {
		t.Errorf("summary = %+v", got.Summary)
	}
	if len(rec.sessions) != 1 {
		t.Errorf("records = %d", len(rec.sessions))
	}
}

// TestTrackLifecycle checks samples, stop, removal and recording.
func TestTrackLifecycle(t *testing.T) {
	r, rec, clk := newTestRegistry()
	ctx := context.Background()

	v := r.StartTrack(3, models.ActivityRunning, 0)
	if _, _, err := r.TrackCommand(3, v.ID, CmdStart); !errors.Is(err, cardio.ErrTrackingUnavailable) {
		t.Fatalf("start without fix = %v", err)
	}
	r.SetStatus(3, v.ID, cardio.StatusReady)
	if _, ok, err := r.TrackCommand(3, v.ID, CmdStart); err != nil || !ok {
		t.Fatalf("start: %v %v", ok, err)
	}

	samples := []models.Coordinate{{Latitude: 52, Longitude: 13}, {Latitude: 52.0005, Longitude: 13}}
	if _, n, err := r.AddSamples(3, v.ID, samples); err != nil || n != 2 {
		t.Fatalf("AddSamples = %d, %v", n, err)
	}
	clk.advance(time.Minute)

	stopped, err := r.StopTrack(ctx, 3, v.ID)
	if err != nil {
		t.Fatalf("StopTrack: %v", err)
	}
	if stopped.Summary == nil || stopped.RecordID == nil || stopped.Summary.DurationSeconds != 60 {
		t.Fatalf("stopped = %+v", stopped)
	}
	if !stopped.Summary.Route[0].Timestamp.Equal(clk.t.Add(-time.Minute)) {
		t.Errorf("sample not stamped: %v", stopped.Summary.Route[0].Timestamp)
	}
	if _, err := r.Track(3, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Track after stop = %v", err)
	}
	if _, err := r.StopTrack(ctx, 3, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second stop = %v", err)
	}
	r.Tick(ctx, time.Second)
	if len(rec.cardio) != 1 || rec.cardio[0].ID != *stopped.RecordID {
		t.Errorf("records = %+v", rec.cardio)
	}
}

// TestSetSpeedWhileTracking checks the treadmill speed lock.
func TestSetSpeedWhileTracking(t *testing.T) {
	r, _, _ := newTestRegistry()
	v := r.StartTrack(1, models.ActivityIndoorRunning, 9)
	if v.Live.IndoorSpeedKmh != 9 {
		t.Errorf("speed = %v", v.Live.IndoorSpeedKmh)
	}
	r.TrackCommand(1, v.ID, CmdStart)
	if _, err := r.SetSpeed(1, v.ID, 12); !errors.Is(err, cardio.ErrTracking) {
		t.Errorf("SetSpeed = %v", err)
	}
}

// TestDefaultIndoorSpeed checks tracks started without a speed use the
// registry default.
func TestDefaultIndoorSpeed(t *testing.T) {
	r := NewRegistry(&memRecorder{}, WithLogger(discard()), WithIndoorSpeed(11))
	v := r.StartTrack(1, models.ActivityIndoorRunning, 0)
	if v.Live.IndoorSpeedKmh != 11 {
		t.Errorf("speed = %v, want 11", v.Live.IndoorSpeedKmh)
	}
}

// TestSweepKeepsTrackingTracks checks an indoor track that is only ticked
// survives the idle sweep and still records on stop.
func TestSweepKeepsTrackingTracks(t *testing.T) {
	r, rec, clk := newTestRegistry()
	ctx := context.Background()
	v := r.StartTrack(1, models.ActivityIndoorRunning, 10)
	r.TrackCommand(1, v.ID, CmdStart)
	for range 150 {
		clk.advance(time.Minute)
		r.Tick(ctx, time.Minute)
	}

	if n := r.Sweep(2 * time.Hour); n != 0 {
		t.Errorf("swept %d tracking entries", n)
	}
	stopped, err := r.StopTrack(ctx, 1, v.ID)
	if err != nil {
		t.Fatalf("StopTrack: %v", err)
	}
	if stopped.Summary.DistanceKm != 25 || len(rec.cardio) != 1 {
		t.Errorf("distance = %v, records = %d", stopped.Summary.DistanceKm, len(rec.cardio))
	}

	paused := r.StartTrack(1, models.ActivityIndoorRunning, 10)
	r.TrackCommand(1, paused.ID, CmdStart)
	r.TrackCommand(1, paused.ID, CmdPause)
	clk.advance(3 * time.Hour)
	if n := r.Sweep(2 * time.Hour); n != 1 {
		t.Errorf("paused track: swept %d, want 1", n)
	}
}

// TestStopTrackRetryAfterSaveError checks a failed save keeps the stopped
// track so a retry records the same summary under one record id.
func TestStopTrackRetryAfterSaveError(t *testing.T) {
	rec := &flakyRecorder{failures: 1}
	clk := &testClock{t: time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)}
	r := NewRegistry(rec, WithClock(clk.now), WithLogger(discard()))
	ctx := context.Background()

	v := r.StartTrack(1, models.ActivityIndoorRunning, 12)
	r.TrackCommand(1, v.ID, CmdStart)
	clk.advance(10 * time.Minute)

	first, err := r.StopTrack(ctx, 1, v.ID)
	if err == nil {
		t.Fatal("first stop succeeded with a failing recorder")
	}
	if first.Summary == nil || first.RecordID != nil {
		t.Errorf("first stop view = %+v", first)
	}

	clk.advance(time.Minute)
	second, err := r.StopTrack(ctx, 1, v.ID)
	if err != nil {
		t.Fatalf("retry StopTrack: %v", err)
	}
	if second.Summary.DurationSeconds != 600 || second.Summary.DistanceKm != first.Summary.DistanceKm {
		t.Errorf("retry summary = %+v, first %+v", second.Summary, first.Summary)
	}
	if len(rec.cardio) != 1 || rec.cardio[0].ID != *second.RecordID {
		t.Errorf("records = %+v", rec.cardio)
	}
	if _, err := r.Track(1, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("track after recorded stop = %v", err)
	}
}

// TestSweep checks idle entries are removed and active ones kept.
func TestSweep(t *testing.T) {
	r, _, clk := newTestRegistry()
	ctx := context.Background()
	old, _ := r.StartSession(1, timedSet(3, 30))
	oldTrack := r.StartTrack(1, models.ActivityWalking, 0)
	clk.advance(20 * time.Minute)
	fresh, _ := r.StartSession(1, timedSet(3, 30))
	r.SessionCommand(ctx, 1, fresh.ID, CmdStart)

	if n := r.Sweep(15 * time.Minute); n != 2 {
		t.Errorf("swept %d, want 2", n)
	}
	if _, err := r.Session(1, old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old session = %v", err)
	}
	if _, err := r.Track(1, oldTrack.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old track = %v", err)
	}
	if _, err := r.Session(1, fresh.ID); err != nil {
		t.Errorf("fresh session = %v", err)
	}
}

type countingTicker struct{ n atomic.Int64 }

func (c *countingTicker) Tick(context.Context, time.Duration) { c.n.Add(1) }

// TestSupervisorStop checks the loop ticks while running and not after Stop
// returns.
func TestSupervisorStop(t *testing.T) {
	target := &countingTicker{}
	s := NewSupervisor(target, discard(), 5*time.Millisecond)
	s.Start(context.Background())
	s.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for target.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	after := target.n.Load()
	if after < 3 {
		t.Fatalf("ticks = %d", after)
	}
	time.Sleep(30 * time.Millisecond)
	if got := target.n.Load(); got != after {
		t.Errorf("ticked after Stop: %d -> %d", after, got)
	}
	s.Stop()
}

type fakePurger struct{ calls int }

func (f *fakePurger) PurgeExpired() int { f.calls++; return 0 }

// TestSweeper checks schedule validation and a manual pass.
func TestSweeper(t *testing.T) {
	r, _, clk := newTestRegistry()
	if _, err := NewSweeper("not a schedule", r, nil, time.Minute, discard()); err == nil {
		t.Error("invalid schedule accepted")
	}

	purger := &fakePurger{}
	sw, err := NewSweeper("@every 1h", r, purger, time.Minute, discard())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	r.StartTrack(1, models.ActivityCycling, 0)
	clk.advance(2 * time.Minute)
	sw.Sweep()
	if _, tracks := r.Counts(); tracks != 0 || purger.calls != 1 {
		t.Errorf("tracks = %d purges = %d", tracks, purger.calls)
	}
	sw.Start()
	sw.Stop()
}
