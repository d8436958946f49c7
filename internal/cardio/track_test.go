package cardio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/claude/fitlife/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)}
}

func coord(lat, lon float64) models.Coordinate {
	return models.Coordinate{Latitude: lat, Longitude: lon}
}

// kmNorth returns a point d km north of (lat, lon).
func kmNorth(lat, lon, d float64) models.Coordinate {
	return coord(lat+d/EarthRadiusKm*180/math.Pi, lon)
}

func startedOutdoor(t *testing.T, clk *fakeClock) *Track {
	t.Helper()
	tr := NewTrack(models.ActivityRunning, WithClock(clk.now))
	tr.SetStatus(StatusReady)
	if err := tr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return tr
}

// TestGlitchRejected checks a 50 km jump is kept in the route but adds no
// distance.
func TestGlitchRejected(t *testing.T) {
	tr := startedOutdoor(t, newClock())
	tr.AddSample(coord(52.0, 13.0))
	tr.AddSample(kmNorth(52.0, 13.0, 50))

	if tr.DistanceKm() != 0 {
		t.Errorf("distance = %f, want 0", tr.DistanceKm())
	}
	if n := len(tr.Route()); n != 2 {
		t.Errorf("route has %d points, want 2", n)
	}
}

// TestSmallDeltaAccumulates checks sub-threshold deltas add their distance.
func TestSmallDeltaAccumulates(t *testing.T) {
	tr := startedOutdoor(t, newClock())
	tr.AddSample(coord(52.0, 13.0))
	next := kmNorth(52.0, 13.0, 0.05)
	tr.AddSample(next)
	tr.AddSample(kmNorth(next.Latitude, next.Longitude, 0.05))

	if got := tr.DistanceKm(); math.Abs(got-0.1) > 1e-6 {
		t.Errorf("distance = %f, want 0.1", got)
	}
}

// TestSamplesIgnoredWhenNotTracking checks samples outside tracking or on
// indoor tracks are dropped.
func TestSamplesIgnoredWhenNotTracking(t *testing.T) {
	clk := newClock()
	tr := NewTrack(models.ActivityWalking, WithClock(clk.now))
	if tr.AddSample(coord(1, 1)) {
		t.Error("sample accepted before Start")
	}
	tr.SetStatus(StatusReady)
	tr.Start()
	tr.Pause()
	if tr.AddSample(coord(1, 1)) {
		t.Error("sample accepted while paused")
	}

	in := NewTrack(models.ActivityIndoorRunning, WithClock(clk.now))
	in.Start()
	if in.AddSample(coord(1, 1)) {
		t.Error("sample accepted on indoor track")
	}
}

// TestStartNeedsReadyStatus checks an outdoor start without a fix fails.
func TestStartNeedsReadyStatus(t *testing.T) {
	for _, st := range []Status{StatusInitializing, StatusError, StatusDenied} {
		tr := NewTrack(models.ActivityCycling)
		tr.SetStatus(st)
		if err := tr.Start(); !errors.Is(err, ErrTrackingUnavailable) {
			t.Errorf("%s: Start() = %v", st, err)
		}
	}
	if !StatusDenied.Unavailable() || StatusReady.Unavailable() {
		t.Error("Unavailable mismatch")
	}
}

// TestIndoorDistance checks treadmill distance is speed times elapsed time.
func TestIndoorDistance(t *testing.T) {
	clk := newClock()
	tr := NewTrack(models.ActivityIndoorRunning, WithClock(clk.now))
	if err := tr.SetIndoorSpeed(10); err != nil {
		t.Fatalf("SetIndoorSpeed: %v", err)
	}
	if err := tr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tr.SetIndoorSpeed(12); !errors.Is(err, ErrTracking) {
		t.Errorf("SetIndoorSpeed while tracking = %v", err)
	}

	clk.advance(30 * time.Minute)
	tr.Tick()
	if got := tr.DistanceKm(); math.Abs(got-5) > 1e-9 {
		t.Errorf("distance = %f, want 5", got)
	}

	sum := tr.Stop()
	if !sum.IsIndoor || len(sum.Route) != 0 || sum.StartPoint != nil || sum.EndPoint != nil {
		t.Errorf("indoor summary = %+v", sum)
	}
	if sum.Pace != "6:00 min/km" {
		t.Errorf("pace = %q", sum.Pace)
	}
	// 6 MET x 70 kg x 0.5 h
	if sum.Calories != 210 {
		t.Errorf("calories = %d, want 210", sum.Calories)
	}
}

// TestIndoorSpeedFloor checks the minimum treadmill speed.
func TestIndoorSpeedFloor(t *testing.T) {
	tr := NewTrack(models.ActivityIndoorRunning)
	tr.SetIndoorSpeed(0.2)
	if got := tr.Snapshot().IndoorSpeedKmh; got != MinIndoorSpeedKmh {
		t.Errorf("speed = %f, want %f", got, MinIndoorSpeedKmh)
	}
}

// TestPauseExcludesTime checks paused intervals do not count.
func TestPauseExcludesTime(t *testing.T) {
	clk := newClock()
	tr := startedOutdoor(t, clk)
	clk.advance(10 * time.Minute)
	tr.Pause()
	clk.advance(5 * time.Minute)
	if got := tr.Elapsed(); got != 10*time.Minute {
		t.Errorf("elapsed while paused = %s", got)
	}
	tr.Resume()
	clk.advance(2 * time.Minute)
	if got := tr.Elapsed(); got != 12*time.Minute {
		t.Errorf("elapsed after resume = %s", got)
	}
}

// TestStopIdempotent checks later Stop calls return the same summary and
// the track ignores further input.
func TestStopIdempotent(t *testing.T) {
	clk := newClock()
	tr := startedOutdoor(t, clk)
	start := coord(52.0, 13.0)
	tr.AddSample(start)
	end := kmNorth(52.0, 13.0, 0.08)
	tr.AddSample(end)
	clk.advance(time.Minute)

	first := tr.Stop()
	clk.advance(time.Hour)
	if tr.AddSample(coord(0, 0)) || tr.Pause() {
		t.Error("input accepted after Stop")
	}
	if err := tr.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("Start after Stop = %v", err)
	}
	second := tr.Stop()

	if first.DurationSeconds != 60 || second.DurationSeconds != 60 || second.DistanceKm != first.DistanceKm {
		t.Errorf("summaries differ: %+v vs %+v", first, second)
	}
	if first.StartPoint == nil || *first.StartPoint != start || *first.EndPoint != end {
		t.Errorf("endpoints = %v %v", first.StartPoint, first.EndPoint)
	}
}

// TestCalories checks the MET formula.
func TestCalories(t *testing.T) {
	tests := []struct {
		activity string
		seconds  int
		weight   float64
		want     int
	}{
		{models.ActivityRunning, 3600, 70, 560},
		{models.ActivityWalking, 3600, 70, 245},
		{models.ActivityCycling, 1800, 80, 300},
		{"rowing", 3600, 60, 300},
		{models.ActivityRunning, 3600, 0, 560},
		{models.ActivityRunning, 0, 70, 0},
	}
	for _, tt := range tests {
		if got := Calories(tt.activity, tt.seconds, tt.weight, 12); got != tt.want {
			t.Errorf("Calories(%s, %d, %v) = %d, want %d", tt.activity, tt.seconds, tt.weight, got, tt.want)
		}
	}
}

// TestPace checks pace formatting including rounding into the next minute.
func TestPace(t *testing.T) {
	tests := []struct {
		km   float64
		secs int
		want string
	}{
		{0, 100, "0:00"},
		{5, 0, "0:00"},
		{5, 1500, "5:00 min/km"},
		{1, 330, "5:30 min/km"},
		{1, 119, "1:59 min/km"},
		{3, 899, "5:00 min/km"},
		{2, 605, "5:03 min/km"},
	}
	for _, tt := range tests {
		if got := Pace(tt.km, tt.secs); got != tt.want {
			t.Errorf("Pace(%v, %d) = %q, want %q", tt.km, tt.secs, got, tt.want)
		}
	}
}

// TestHaversine checks a known distance.
func TestHaversine(t *testing.T) {
	// One degree of latitude.
	got := Haversine(coord(0, 0), coord(1, 0))
	want := EarthRadiusKm * math.Pi / 180
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Haversine = %f, want %f", got, want)
	}
}
