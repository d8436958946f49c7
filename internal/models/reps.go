package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RepsKind discriminates the Reps variants.
type RepsKind int

const (
	RepsCount RepsKind = iota
	RepsRange
	RepsTimed
)

// Reps is the prescribed work per set: a fixed count ("12"), a range
// ("10-12") or a timed hold ("30s").
type Reps struct {
	Kind    RepsKind
	Count   int
	Range   string
	Seconds int
}

// Count returns a fixed repetition count.
func Count(n int) Reps { return Reps{Kind: RepsCount, Count: n} }

// RepRange returns a repetition range such as "8-10".
func RepRange(r string) Reps { return Reps{Kind: RepsRange, Range: r} }

// TimedSeconds returns a timed set.
func TimedSeconds(s int) Reps { return Reps{Kind: RepsTimed, Seconds: s} }

func (r Reps) String() string {
	switch r.Kind {
	case RepsRange:
		return r.Range
	case RepsTimed:
		return fmt.Sprintf("%ds", r.Seconds)
	default:
		return strconv.Itoa(r.Count)
	}
}

// ParseReps resolves a display string into a Reps variant.
// "30s" and "30 sec" are timed, "10-12" is a range, "12" is a count.
// Anything else is kept verbatim as a range label.
func ParseReps(s string) Reps {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Count(n)
	}
	lower := strings.ToLower(s)
	for _, suffix := range []string{" seconds", " sec", "sec", "s"} {
		if strings.HasSuffix(lower, suffix) {
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(lower, suffix))); err == nil {
				return TimedSeconds(n)
			}
		}
	}
	return RepRange(s)
}

// MarshalJSON encodes counts as numbers and the other variants as strings.
func (r Reps) MarshalJSON() ([]byte, error) {
	if r.Kind == RepsCount {
		return json.Marshal(r.Count)
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either a number or a display string.
func (r *Reps) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Count(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("reps must be a number or string: %w", err)
	}
	*r = ParseReps(s)
	return nil
}
