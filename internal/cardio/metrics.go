package cardio

import (
	"fmt"
	"math"

	"github.com/claude/fitlife/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// DefaultWeightKg is used when no body weight is known.
const DefaultWeightKg = 70.0

var metValues = map[string]float64{
	models.ActivityRunning:       8,
	models.ActivityWalking:       3.5,
	models.ActivityCycling:       7.5,
	models.ActivityIndoorRunning: 6,
}

// MET returns the metabolic equivalent for activity, 5 when unknown.
func MET(activity string) float64 {
	if m, ok := metValues[activity]; ok {
		return m
	}
	return 5
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b models.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Calories estimates energy burned as MET x kg x hours, rounded. Distance is
// accepted for callers that have it but does not enter the formula.
func Calories(activity string, durationSeconds int, weightKg, distanceKm float64) int {
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	return int(math.Round(MET(activity) * weightKg * float64(durationSeconds) / 3600))
}

// Pace formats seconds per km as "M:SS min/km", or "0:00" when either
// input is zero.
func Pace(distanceKm float64, durationSeconds int) string {
	if distanceKm == 0 || durationSeconds == 0 {
		return "0:00"
	}
	secondsPerKm := float64(durationSeconds) / distanceKm
	total := int(math.Round(secondsPerKm))
	return fmt.Sprintf("%d:%02d min/km", total/60, total%60)
}
