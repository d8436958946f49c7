package export

import (
	"fmt"
	"io"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/models"
)

// degreesToSemicircles converts WGS84 degrees to FIT semicircles.
const degreesToSemicircles = 2147483648.0 / 180.0

// FIT encodes sum as a FIT activity file: file id, one record per GPS
// sample, a timer stop event, one lap and the session summary.
func FIT(w io.Writer, sum models.CardioSummary) error {
	start := sum.StartedAt
	end := sum.EndedAt
	if end.Before(start) {
		end = start
	}

	fit := proto.FIT{}
	fileID := mesgdef.FileId{
		Type:         typedef.FileActivity,
		Manufacturer: typedef.ManufacturerDevelopment,
		TimeCreated:  start,
	}
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	startEvent := mesgdef.Event{
		Timestamp: start,
		Event:     typedef.EventTimer,
		EventType: typedef.EventTypeStart,
	}
	fit.Messages = append(fit.Messages, startEvent.ToMesg(nil))

	for _, rec := range records(sum) {
		fit.Messages = append(fit.Messages, rec.ToMesg(nil))
	}

	elapsedMs := uint32(end.Sub(start).Milliseconds())
	timerMs := uint32(sum.DurationSeconds) * 1000
	distance := uint32(sum.DistanceKm * 100000)
	calories := uint16(min(sum.Calories, 65534))
	sport, subSport := sportOf(sum)

	stop := mesgdef.Event{
		Timestamp: end,
		Event:     typedef.EventTimer,
		EventType: typedef.EventTypeStopAll,
	}
	fit.Messages = append(fit.Messages, stop.ToMesg(nil))

	lap := mesgdef.Lap{
		Timestamp:        end,
		StartTime:        start,
		TotalElapsedTime: elapsedMs,
		TotalTimerTime:   timerMs,
		TotalDistance:    distance,
		TotalCalories:    calories,
		Sport:            sport,
		Event:            typedef.EventLap,
		EventType:        typedef.EventTypeStop,
	}
	fit.Messages = append(fit.Messages, lap.ToMesg(nil))

	session := mesgdef.Session{
		Timestamp:        end,
		StartTime:        start,
		TotalElapsedTime: elapsedMs,
		TotalTimerTime:   timerMs,
		TotalDistance:    distance,
		TotalCalories:    calories,
		Sport:            sport,
		SubSport:         subSport,
		Event:            typedef.EventSession,
		EventType:        typedef.EventTypeStop,
		Trigger:          typedef.SessionTriggerActivityEnd,
	}
	fit.Messages = append(fit.Messages, session.ToMesg(nil))

	if err := encoder.New(w).Encode(&fit); err != nil {
		return fmt.Errorf("encoding fit: %w", err)
	}
	return nil
}

// records builds one Record per route sample with the cumulative distance
// accumulated under the same glitch rule as live tracking.
func records(sum models.CardioSummary) []*mesgdef.Record {
	if sum.IsIndoor {
		return nil
	}
	out := make([]*mesgdef.Record, 0, len(sum.Route))
	var km float64
	for i, c := range sum.Route {
		if i > 0 {
			if d := cardio.Haversine(sum.Route[i-1], c); d < cardio.GlitchThresholdKm {
				km += d
			}
		}
		ts := c.Timestamp
		if ts.IsZero() {
			ts = sum.StartedAt.Add(time.Duration(i) * time.Second)
		}
		out = append(out, &mesgdef.Record{
			Timestamp:    ts,
			PositionLat:  int32(c.Latitude * degreesToSemicircles),
			PositionLong: int32(c.Longitude * degreesToSemicircles),
			Distance:     uint32(km * 100000),
		})
	}
	return out
}

func sportOf(sum models.CardioSummary) (typedef.Sport, typedef.SubSport) {
	switch sum.Activity {
	case models.ActivityRunning:
		return typedef.SportRunning, typedef.SubSportGeneric
	case models.ActivityIndoorRunning:
		return typedef.SportRunning, typedef.SubSportTreadmill
	case models.ActivityWalking:
		return typedef.SportWalking, typedef.SubSportGeneric
	case models.ActivityCycling:
		return typedef.SportCycling, typedef.SubSportGeneric
	default:
		return typedef.SportGeneric, typedef.SubSportGeneric
	}
}
