// Package session runs a guided workout over one WorkoutSet. A Session is a
// plain state machine: commands and Tick are its only inputs and it owns no
// goroutines or timers. Callers serialise access.
package session

import (
	"errors"
	"math"
	"time"

	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/workout"
)

// ErrNoExercises is reported by sessions created over an empty set.
var ErrNoExercises = errors.New("no exercises found")

const (
	defaultRestSeconds     = 60
	defaultDurationSeconds = 30
)

// Phase is the session's current mode.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExercising
	PhaseResting
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExercising:
		return "exercising"
	case PhaseResting:
		return "resting"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Progress is a read-only snapshot of a session.
type Progress struct {
	ExerciseIndex        int      `json:"exercise_index"`
	ExerciseID           string   `json:"exercise_id,omitempty"`
	CurrentSet           int      `json:"current_set"`
	TotalSets            int      `json:"total_sets"`
	Phase                Phase    `json:"phase"`
	TimeLeft             int      `json:"time_left"`
	Paused               bool     `json:"paused"`
	CompletedExerciseIDs []string `json:"completed_exercise_ids"`
	ElapsedSeconds       int      `json:"elapsed_seconds"`
	Empty                bool     `json:"empty,omitempty"`
}

// EventKind identifies a session event.
type EventKind int

const (
	EventPhaseChanged EventKind = iota
	EventExerciseCompleted
	EventSessionCompleted
)

// Event is delivered to the listener after each transition.
type Event struct {
	Kind       EventKind
	ExerciseID string
	Progress   Progress
}

// Option configures a Session.
type Option func(*Session)

// WithListener registers fn to receive transition events. fn runs
// synchronously inside the command or Tick that caused it.
func WithListener(fn func(Event)) Option {
	return func(s *Session) { s.listener = fn }
}

// Session is the state of one guided workout.
type Session struct {
	set        models.WorkoutSet
	bodyweight bool
	listener   func(Event)

	index      int
	currentSet int
	phase      Phase
	timeLeft   int
	paused     bool
	completed  []string
	elapsed    int
	carry      time.Duration

	summary *models.SessionSummary
}

// New starts a session over set. The wall-clock counter starts with the
// first Tick. A set without exercises yields a session that is already
// complete and whose Err is ErrNoExercises.
func New(set models.WorkoutSet, opts ...Option) *Session {
	s := &Session{
		set:        set,
		bodyweight: set.Bodyweight(),
		currentSet: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(set.Exercises) == 0 {
		s.phase = PhaseComplete
	}
	return s
}

// Err returns ErrNoExercises for an empty session.
func (s *Session) Err() error {
	if len(s.set.Exercises) == 0 {
		return ErrNoExercises
	}
	return nil
}

// Set returns the workout being run.
func (s *Session) Set() models.WorkoutSet { return s.set }

// Done reports whether the session reached Complete.
func (s *Session) Done() bool { return s.phase == PhaseComplete }

// Summary returns the terminal summary once the session has completed.
// Empty sessions never produce one.
func (s *Session) Summary() (models.SessionSummary, bool) {
	if s.summary == nil {
		return models.SessionSummary{}, false
	}
	return *s.summary, true
}

// Current returns the exercise in progress.
func (s *Session) Current() (models.WorkoutExercise, bool) {
	if s.index >= len(s.set.Exercises) {
		return models.WorkoutExercise{}, false
	}
	return s.set.Exercises[s.index], true
}

// Snapshot returns the current progress.
func (s *Session) Snapshot() Progress {
	p := Progress{
		ExerciseIndex:        s.index,
		CurrentSet:           s.currentSet,
		Phase:                s.phase,
		TimeLeft:             s.timeLeft,
		Paused:               s.paused,
		CompletedExerciseIDs: append([]string(nil), s.completed...),
		ElapsedSeconds:       s.elapsed,
		Empty:                len(s.set.Exercises) == 0,
	}
	if ex, ok := s.Current(); ok {
		p.ExerciseID = exerciseKey(ex)
		p.TotalSets = s.totalSets()
	}
	return p
}

// StartExercise begins the timed working phase of a bodyweight set.
func (s *Session) StartExercise() bool {
	if s.phase != PhaseIdle || !s.bodyweight {
		return false
	}
	s.timeLeft = s.workSeconds()
	s.paused = false
	s.setPhase(PhaseExercising)
	return true
}

// CompleteSet records a finished set. It starts a rest when sets remain and
// completes the exercise otherwise.
func (s *Session) CompleteSet() bool {
	if s.phase != PhaseIdle && s.phase != PhaseExercising {
		return false
	}
	if s.currentSet < s.totalSets() {
		s.startRest()
	} else {
		s.completeExercise()
	}
	return true
}

// SkipRest ends a rest period immediately.
func (s *Session) SkipRest() bool {
	if s.phase != PhaseResting {
		return false
	}
	s.afterRest()
	return true
}

// CompleteExercise advances past the current exercise regardless of sets.
func (s *Session) CompleteExercise() bool {
	if s.Done() {
		return false
	}
	s.completeExercise()
	return true
}

// CompleteEarly ends the session now. The completed count is the current
// exercise position, whether or not that exercise was finished.
func (s *Session) CompleteEarly() bool {
	if s.Done() {
		return false
	}
	s.finish(s.index+1, true)
	return true
}

// Pause freezes the working countdown. The wall clock keeps running.
func (s *Session) Pause() bool {
	if s.phase != PhaseExercising || s.paused {
		return false
	}
	s.paused = true
	s.emit(EventPhaseChanged, "")
	return true
}

// Resume continues a paused countdown from where it stopped.
func (s *Session) Resume() bool {
	if s.phase != PhaseExercising || !s.paused {
		return false
	}
	s.paused = false
	s.emit(EventPhaseChanged, "")
	return true
}

// Tick advances the session clock by elapsed. Whole seconds are applied one
// at a time; remainders carry over to the next Tick.
func (s *Session) Tick(elapsed time.Duration) {
	if s.Done() || elapsed <= 0 {
		return
	}
	s.carry += elapsed
	for s.carry >= time.Second && !s.Done() {
		s.carry -= time.Second
		s.step()
	}
}

func (s *Session) step() {
	s.elapsed++
	counting := (s.phase == PhaseExercising && !s.paused) || s.phase == PhaseResting
	if !counting {
		return
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		return
	}
	s.timeLeft = 0
	switch s.phase {
	case PhaseResting:
		s.afterRest()
	case PhaseExercising:
		if s.currentSet < s.totalSets() {
			s.startRest()
		} else {
			s.completeExercise()
		}
	}
}

func (s *Session) startRest() {
	ex, _ := s.Current()
	s.timeLeft = ex.RestSeconds(defaultRestSeconds)
	s.paused = false
	s.setPhase(PhaseResting)
}

func (s *Session) afterRest() {
	if s.currentSet < s.totalSets() {
		s.currentSet++
		s.timeLeft = 0
		s.setPhase(PhaseIdle)
		return
	}
	s.completeExercise()
}

func (s *Session) completeExercise() {
	ex, _ := s.Current()
	id := exerciseKey(ex)
	s.completed = append(s.completed, id)
	s.emit(EventExerciseCompleted, id)

	if s.index < len(s.set.Exercises)-1 {
		s.index++
		s.currentSet = 1
		s.timeLeft = 0
		s.paused = false
		s.setPhase(PhaseIdle)
		return
	}
	s.finish(len(s.set.Exercises), false)
}

func (s *Session) finish(exercisesCompleted int, early bool) {
	minutes := int(math.Round(float64(s.elapsed) / 60))
	s.summary = &models.SessionSummary{
		SetID:              s.set.ID,
		SetName:            s.set.SetName,
		Difficulty:         s.set.Difficulty,
		ExercisesCompleted: exercisesCompleted,
		TotalTimeMinutes:   minutes,
		ActualTimeSeconds:  s.elapsed,
		CompletedEarly:     early,
		Calories:           workout.WorkoutCalories(minutes, s.set.Difficulty),
	}
	s.timeLeft = 0
	s.paused = false
	s.setPhase(PhaseComplete)
	s.emit(EventSessionCompleted, "")
}

func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.emit(EventPhaseChanged, "")
}

func (s *Session) emit(kind EventKind, exerciseID string) {
	if s.listener == nil {
		return
	}
	s.listener(Event{Kind: kind, ExerciseID: exerciseID, Progress: s.Snapshot()})
}

func (s *Session) totalSets() int {
	ex, _ := s.Current()
	if ex.Sets < 1 {
		return 1
	}
	return ex.Sets
}

// workSeconds is the countdown length of one timed set.
func (s *Session) workSeconds() int {
	ex, _ := s.Current()
	if ex.Duration != nil && *ex.Duration > 0 {
		return *ex.Duration
	}
	if s.set.Config != nil && s.set.Config.ExerciseDuration > 0 {
		return s.set.Config.ExerciseDuration
	}
	return defaultDurationSeconds
}

func exerciseKey(ex models.WorkoutExercise) string {
	if ex.ID != "" {
		return ex.ID
	}
	return ex.Name
}
