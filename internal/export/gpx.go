// Package export writes stopped cardio activities as GPX tracks and FIT
// activity files.
package export

import (
	"errors"
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/claude/fitlife/internal/models"
)

// ErrNoRoute is returned when a GPX export is requested for an activity
// without GPS samples.
var ErrNoRoute = errors.New("activity has no route")

const creator = "fitlife"

// GPX renders the route of sum as a GPX 1.1 document with one track.
func GPX(sum models.CardioSummary) ([]byte, error) {
	if sum.IsIndoor || len(sum.Route) == 0 {
		return nil, ErrNoRoute
	}

	points := make([]gpx.GPXPoint, 0, len(sum.Route))
	for _, c := range sum.Route {
		ts := c.Timestamp
		if ts.IsZero() {
			ts = sum.StartedAt
		}
		points = append(points, gpx.GPXPoint{
			Point:     gpx.Point{Latitude: c.Latitude, Longitude: c.Longitude},
			Timestamp: ts.UTC(),
		})
	}

	doc := &gpx.GPX{
		Creator: creator,
		Name:    trackName(sum),
		Tracks: []gpx.GPXTrack{{
			Name:     trackName(sum),
			Type:     sum.Activity,
			Segments: []gpx.GPXTrackSegment{{Points: points}},
		}},
	}

	b, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encoding gpx: %w", err)
	}
	return b, nil
}

func trackName(sum models.CardioSummary) string {
	return fmt.Sprintf("%s %s", sum.Activity, sum.StartedAt.UTC().Format("2006-01-02 15:04"))
}
