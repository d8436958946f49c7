package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/claude/fitlife/internal/models"
)

var t0 = time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

func outdoorSummary() models.CardioSummary {
	route := []models.Coordinate{
		{Latitude: 52.5, Longitude: 13.25, Timestamp: t0},
		{Latitude: 52.5005, Longitude: 13.25, Timestamp: t0.Add(10 * time.Second)},
		{Latitude: 52.501, Longitude: 13.25, Timestamp: t0.Add(20 * time.Second)},
	}
	return models.CardioSummary{
		Activity:        models.ActivityRunning,
		DistanceKm:      0.111,
		DurationSeconds: 20,
		Calories:        3,
		Pace:            "3:00 min/km",
		Route:           route,
		StartPoint:      &route[0],
		EndPoint:        &route[2],
		StartedAt:       t0,
		EndedAt:         t0.Add(20 * time.Second),
	}
}

// TestGPXParsesBack checks the exported document is valid GPX carrying
// every route sample.
func TestGPXParsesBack(t *testing.T) {
	sum := outdoorSummary()
	b, err := GPX(sum)
	if err != nil {
		t.Fatalf("GPX: %v", err)
	}

	doc, err := gpx.ParseBytes(b)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if len(doc.Tracks) != 1 || len(doc.Tracks[0].Segments) != 1 {
		t.Fatalf("tracks = %+v", doc.Tracks)
	}
	pts := doc.Tracks[0].Segments[0].Points
	if len(pts) != len(sum.Route) {
		t.Fatalf("got %d points, want %d", len(pts), len(sum.Route))
	}
	for i, p := range pts {
		c := sum.Route[i]
		if p.Latitude != c.Latitude || p.Longitude != c.Longitude || !p.Timestamp.Equal(c.Timestamp) {
			t.Errorf("point %d = %v,%v@%s, want %v,%v@%s", i, p.Latitude, p.Longitude, p.Timestamp, c.Latitude, c.Longitude, c.Timestamp)
		}
	}
	if doc.Tracks[0].Type != models.ActivityRunning {
		t.Errorf("track type = %q", doc.Tracks[0].Type)
	}
}

// TestGPXNoRoute checks indoor and empty activities are refused.
func TestGPXNoRoute(t *testing.T) {
	indoor := models.CardioSummary{Activity: models.ActivityIndoorRunning, IsIndoor: true, Route: []models.Coordinate{}}
	if _, err := GPX(indoor); !errors.Is(err, ErrNoRoute) {
		t.Errorf("indoor: err = %v", err)
	}
	empty := models.CardioSummary{Activity: models.ActivityWalking}
	if _, err := GPX(empty); !errors.Is(err, ErrNoRoute) {
		t.Errorf("empty: err = %v", err)
	}
}

// TestFITDecodes checks the FIT file decodes with one record per sample and
// a session summary.
func TestFITDecodes(t *testing.T) {
	tests := []struct {
		name    string
		sum     models.CardioSummary
		records int
	}{
		{"outdoor", outdoorSummary(), 3},
		{"indoor", models.CardioSummary{
			Activity:        models.ActivityIndoorRunning,
			IsIndoor:        true,
			DistanceKm:      5,
			DurationSeconds: 1800,
			Calories:        210,
			Route:           []models.Coordinate{},
			StartedAt:       t0,
			EndedAt:         t0.Add(30 * time.Minute),
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FIT(&buf, tt.sum); err != nil {
				t.Fatalf("FIT: %v", err)
			}
			if b := buf.Bytes(); len(b) < 14 || string(b[8:12]) != ".FIT" {
				t.Fatalf("missing FIT header")
			}

			fit, err := decoder.New(bytes.NewReader(buf.Bytes())).Decode()
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			var records, sessions int
			for _, m := range fit.Messages {
				switch m.Num {
				case typedef.MesgNumRecord:
					records++
				case typedef.MesgNumSession:
					sessions++
				}
			}
			if records != tt.records || sessions != 1 {
				t.Errorf("records = %d sessions = %d, want %d and 1", records, sessions, tt.records)
			}
		})
	}
}
