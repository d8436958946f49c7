// Package cardio accumulates GPS samples or treadmill time into a cardio
// activity and derives distance, pace and calories from it. A Track is not
// safe for concurrent use.
package cardio

import (
	"errors"
	"slices"
	"time"

	"github.com/claude/fitlife/internal/models"
)

var (
	// ErrTracking is returned when a setting is changed mid-activity.
	ErrTracking = errors.New("track is in progress")
	// ErrTrackingUnavailable is returned when an outdoor track is started
	// without a ready GPS fix.
	ErrTrackingUnavailable = errors.New("tracking unavailable")
	// ErrStopped is returned by commands on a stopped track.
	ErrStopped = errors.New("track is stopped")
)

const (
	// GlitchThresholdKm is the smallest jump between consecutive samples
	// treated as GPS noise.
	GlitchThresholdKm = 0.1
	// DefaultIndoorSpeedKmh is the treadmill speed until changed.
	DefaultIndoorSpeedKmh = 8.0
	// MinIndoorSpeedKmh is the slowest treadmill speed accepted.
	MinIndoorSpeedKmh = 1.0
)

// Status is the GPS state reported by the location collaborator.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusReady        Status = "ready"
	StatusError        Status = "error"
	StatusDenied       Status = "denied"
)

// Unavailable reports whether samples cannot be expected.
func (s Status) Unavailable() bool {
	return s == StatusError || s == StatusDenied
}

// State is the lifecycle of a Track.
type State string

const (
	StateIdle     State = "idle"
	StateTracking State = "tracking"
	StatePaused   State = "paused"
	StateStopped  State = "stopped"
)

// Snapshot is the live view of a Track.
type Snapshot struct {
	Activity        string  `json:"activity"`
	State           State   `json:"state"`
	Status          Status  `json:"gps_status"`
	IsIndoor        bool    `json:"is_indoor"`
	IndoorSpeedKmh  float64 `json:"indoor_speed_kmh,omitempty"`
	DistanceKm      float64 `json:"distance_km"`
	DurationSeconds int     `json:"duration_seconds"`
	Calories        int     `json:"calories"`
	Pace            string  `json:"pace"`
	Points          int     `json:"points"`
}

// Option configures a Track.
type Option func(*Track)

// WithIndoorSpeed sets the initial treadmill speed.
func WithIndoorSpeed(kmh float64) Option {
	return func(t *Track) {
		if kmh >= MinIndoorSpeedKmh {
			t.speedKmh = kmh
		}
	}
}

// WithWeight sets the body weight used for calories.
func WithWeight(kg float64) Option {
	return func(t *Track) {
		if kg > 0 {
			t.weightKg = kg
		}
	}
}

// WithClock sets the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Track) { t.now = now }
}

// Track is one cardio activity. Indoor mode is fixed by the activity kind.
type Track struct {
	activity string
	indoor   bool
	speedKmh float64
	weightKg float64
	now      func() time.Time

	state      State
	status     Status
	route      []models.Coordinate
	distanceKm float64

	startedAt    time.Time
	pausedAt     time.Time
	pausedOffset time.Duration
	endedAt      time.Time

	summary *models.CardioSummary
}

// NewTrack returns an idle track for activity.
func NewTrack(activity string, opts ...Option) *Track {
	t := &Track{
		activity: activity,
		indoor:   activity == models.ActivityIndoorRunning,
		speedKmh: DefaultIndoorSpeedKmh,
		weightKg: DefaultWeightKg,
		now:      time.Now,
		state:    StateIdle,
		status:   StatusInitializing,
	}
	if t.indoor {
		t.status = StatusReady
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Activity returns the activity kind.
func (t *Track) Activity() string { return t.activity }

// Indoor reports whether the track is speed-driven.
func (t *Track) Indoor() bool { return t.indoor }

// State returns the lifecycle state.
func (t *Track) State() State { return t.state }

// SetStatus records the collaborator's GPS status. Indoor tracks ignore it.
func (t *Track) SetStatus(s Status) {
	if t.indoor || t.state == StateStopped {
		return
	}
	t.status = s
}

// SetIndoorSpeed changes the treadmill speed while not tracking.
func (t *Track) SetIndoorSpeed(kmh float64) error {
	switch t.state {
	case StateStopped:
		return ErrStopped
	case StateTracking, StatePaused:
		return ErrTracking
	}
	t.speedKmh = max(kmh, MinIndoorSpeedKmh)
	return nil
}

// Start begins tracking. Outdoor tracks need a ready GPS status.
func (t *Track) Start() error {
	switch t.state {
	case StateStopped:
		return ErrStopped
	case StateTracking, StatePaused:
		return ErrTracking
	}
	if !t.indoor && t.status != StatusReady {
		return ErrTrackingUnavailable
	}
	t.startedAt = t.now()
	t.state = StateTracking
	return nil
}

// Pause stops the clock and sample ingestion.
func (t *Track) Pause() bool {
	if t.state != StateTracking {
		return false
	}
	t.Tick()
	t.pausedAt = t.now()
	t.state = StatePaused
	return true
}

// Resume restarts the clock, excluding the paused interval.
func (t *Track) Resume() bool {
	if t.state != StatePaused {
		return false
	}
	t.pausedOffset += t.now().Sub(t.pausedAt)
	t.state = StateTracking
	return true
}

// AddSample appends an outdoor GPS sample. It reports whether the sample
// was recorded. Jumps of GlitchThresholdKm or more stay in the route but do
// not add distance.
func (t *Track) AddSample(c models.Coordinate) bool {
	if t.indoor || t.state != StateTracking {
		return false
	}
	if n := len(t.route); n > 0 {
		if d := Haversine(t.route[n-1], c); d < GlitchThresholdKm {
			t.distanceKm += d
		}
	}
	t.route = append(t.route, c)
	return true
}

// Tick refreshes time-derived state. Indoor distance is speed x elapsed.
func (t *Track) Tick() {
	if t.state != StateTracking || !t.indoor {
		return
	}
	t.distanceKm = t.speedKmh * t.elapsed().Hours()
}

// Elapsed returns tracked time excluding pauses.
func (t *Track) Elapsed() time.Duration { return t.elapsed() }

func (t *Track) elapsed() time.Duration {
	var end time.Time
	switch t.state {
	case StateIdle:
		return 0
	case StatePaused:
		end = t.pausedAt
	case StateStopped:
		end = t.endedAt
	default:
		end = t.now()
	}
	return max(end.Sub(t.startedAt)-t.pausedOffset, 0)
}

// DistanceKm returns the accumulated distance.
func (t *Track) DistanceKm() float64 { return t.distanceKm }

// Route returns a copy of the recorded samples.
func (t *Track) Route() []models.Coordinate { return slices.Clone(t.route) }

// Snapshot returns the live metrics.
func (t *Track) Snapshot() Snapshot {
	secs := int(t.elapsed().Seconds())
	s := Snapshot{
		Activity:        t.activity,
		State:           t.state,
		Status:          t.status,
		IsIndoor:        t.indoor,
		DistanceKm:      t.distanceKm,
		DurationSeconds: secs,
		Calories:        Calories(t.activity, secs, t.weightKg, t.distanceKm),
		Pace:            Pace(t.distanceKm, secs),
		Points:          len(t.route),
	}
	if t.indoor {
		s.IndoorSpeedKmh = t.speedKmh
	}
	return s
}

// Stop ends the track and returns its summary. Later calls return the same
// summary and nothing mutates the track afterwards.
func (t *Track) Stop() models.CardioSummary {
	if t.summary != nil {
		return *t.summary
	}
	if t.state == StatePaused {
		t.pausedOffset += t.now().Sub(t.pausedAt)
	}
	if t.state == StateTracking {
		t.Tick()
	}
	now := t.now()
	if t.state == StateIdle {
		t.startedAt = now
	}
	t.endedAt = now
	t.state = StateStopped

	secs := int(t.elapsed().Seconds())
	sum := models.CardioSummary{
		Activity:        t.activity,
		DistanceKm:      t.distanceKm,
		DurationSeconds: secs,
		Calories:        Calories(t.activity, secs, t.weightKg, t.distanceKm),
		Pace:            Pace(t.distanceKm, secs),
		Route:           []models.Coordinate{},
		IsIndoor:        t.indoor,
		StartedAt:       t.startedAt,
		EndedAt:         t.endedAt,
	}
	if !t.indoor && len(t.route) > 0 {
		sum.Route = slices.Clone(t.route)
		first, last := t.route[0], t.route[len(t.route)-1]
		sum.StartPoint = &first
		sum.EndPoint = &last
	}
	t.summary = &sum
	return sum
}
