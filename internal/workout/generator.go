// Package workout composes exercises from the catalog into named workout
// sets and estimates how long they take.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/claude/fitlife/internal/catalog"
	"github.com/claude/fitlife/internal/models"
)

const (
	// minPool is the pool size below which complementary and generic
	// exercises are mixed in.
	minPool = 8
	// maxPrimary is how many target-muscle exercises lead each set.
	maxPrimary = 3
	minPerSet  = 3
	maxPerSet  = 5
)

type setType struct {
	name        string
	focus       string
	description string
}

var setTypes = []setType{
	{name: "Strength Focus", focus: models.FocusStrength, description: "Focus on heavy weights and lower reps"},
	{name: "Endurance Builder", focus: models.FocusEndurance, description: "Higher reps for muscular endurance"},
	{name: "Power Development", focus: models.FocusPower, description: "Explosive movements for power"},
}

// Generator builds workout sets. It is safe for concurrent use.
type Generator struct {
	source catalog.Source
	ids    IDFunc
	now    func() time.Time
	log    *slog.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the catalog the generator draws from.
func WithSource(src catalog.Source) Option {
	return func(g *Generator) { g.source = src }
}

// WithIDs sets the token source used in set and exercise ids.
func WithIDs(ids IDFunc) Option {
	return func(g *Generator) { g.ids = ids }
}

// WithRand sets the random source used to shuffle top picks.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// NewGenerator returns a Generator over the static catalog with UUID tokens.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		source: catalog.Static{},
		ids:    UUIDs(),
		now:    time.Now,
		log:    slog.New(slog.DiscardHandler),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns up to three workout sets for the muscle, difficulty and
// equipment type. It never fails: a catalog error falls back to the static
// table and under-filled sets are dropped.
func (g *Generator) Generate(ctx context.Context, muscle, difficulty, equipmentType string) []models.WorkoutSet {
	muscle = strings.ToLower(strings.TrimSpace(muscle))
	bodyweight := equipmentType == models.EquipmentWithout

	all, err := g.source.Exercises(ctx)
	if err != nil {
		g.log.Warn("catalog query failed, using static catalog", "muscle", muscle, "error", err)
		all = catalog.All()
	}

	pool := candidatePool(all, muscle, bodyweight)
	g.log.Debug("generating workout sets",
		"muscle", muscle,
		"difficulty", difficulty,
		"equipment", equipmentType,
		"pool", len(pool),
	)
	return g.compose(pool, muscle, difficulty, equipmentType, bodyweight)
}

// candidatePool filters the catalog to the target muscle and equipment class,
// widening it with complementary groups when it is thin.
func candidatePool(all []models.Exercise, muscle string, bodyweight bool) []models.Exercise {
	target := catalog.CanonicalMuscle(muscle)
	pool := catalog.Filter(all, target, bodyweight)
	if len(pool) >= minPool {
		return pool
	}
	for _, m := range catalog.Complementary(target) {
		comp := catalog.Filter(all, m, bodyweight)
		pool = append(pool, comp[:min(3, len(comp))]...)
	}
	return dedupByName(pool)
}

func (g *Generator) compose(pool []models.Exercise, muscle, difficulty, equipmentType string, bodyweight bool) []models.WorkoutSet {
	cfg := ConfigFor(difficulty)
	if len(pool) < minPool {
		pool = dedupByName(append(pool, catalog.Generic(bodyweight)...))
	}

	target := catalog.CanonicalMuscle(muscle)
	batch := g.ids()
	createdAt := g.now()

	var sets []models.WorkoutSet
	for i, st := range setTypes {
		used := make(map[string]bool)
		var exercises []models.WorkoutExercise
		add := func(e models.Exercise) {
			exercises = append(exercises, g.buildExercise(e, cfg, bodyweight, len(exercises)+1))
			used[e.Name] = true
		}

		primary := 0
		for _, e := range pool {
			if primary == maxPrimary {
				break
			}
			m := strings.ToLower(e.Muscle)
			if (m == muscle || m == target) && !used[e.Name] {
				add(e)
				primary++
			}
		}

		// Offsetting the scan by set index keeps the three sets distinct.
		for j := 0; j < len(pool) && len(exercises) < maxPerSet; j++ {
			e := pool[(i*4+j)%len(pool)]
			if !used[e.Name] {
				add(e)
			}
		}

		for len(exercises) < minPerSet {
			fb := catalog.Fallback(muscle, len(exercises)+1)
			if used[fb.Name] {
				break
			}
			add(fb)
		}

		if len(exercises) < minPerSet {
			g.log.Debug("dropping under-filled set", "set", st.name, "exercises", len(exercises))
			continue
		}

		setCfg := cfg
		sets = append(sets, models.WorkoutSet{
			ID:             fmt.Sprintf("workout-%s-%s-%s-%d-%s", muscle, difficulty, equipmentType, i, batch),
			Exercises:      exercises,
			TotalExercises: len(exercises),
			EstimatedTime:  EstimateDuration(exercises, bodyweight, cfg),
			IsBodyweight:   bodyweight,
			Muscle:         muscle,
			Difficulty:     difficulty,
			EquipmentType:  equipmentType,
			Config:         &setCfg,
			SetName:        st.name,
			SetDescription: st.description,
			SetFocus:       st.focus,
			CreatedAt:      createdAt,
		})
	}
	return sets
}

// buildExercise converts a catalog entry into a WorkoutExercise at order.
func (g *Generator) buildExercise(e models.Exercise, cfg models.SetConfig, bodyweight bool, order int) models.WorkoutExercise {
	src := e.ID
	if src == "" {
		src = e.Name
	}
	instructions := e.Instructions
	if instructions == "" {
		instructions = DefaultInstructions(e.Name, e.Muscle)
	}

	we := models.WorkoutExercise{
		ID:                   fmt.Sprintf("%s-%d-%s", src, order, g.ids()),
		SourceID:             e.ID,
		Name:                 e.Name,
		Type:                 e.Type,
		Muscle:               e.Muscle,
		Equipment:            e.Equipment,
		Difficulty:           e.Difficulty,
		Sets:                 cfg.Sets,
		Rest:                 fmt.Sprintf("%ds", cfg.Rest),
		IsBodyweight:         bodyweight,
		RestBetweenExercises: cfg.RestBetweenExercises,
		Order:                order,
		Instructions:         instructions,
	}
	if bodyweight {
		d := cfg.ExerciseDuration
		we.Reps = models.TimedSeconds(d)
		we.Duration = &d
		we.EstimatedTimePerSet = d
	} else {
		we.Reps = models.RepRange(cfg.Reps)
		we.EstimatedTimePerSet = 45
	}
	return we
}

// DefaultInstructions is used when a catalog entry carries none.
func DefaultInstructions(name, muscle string) string {
	return fmt.Sprintf("Perform %s with proper form and controlled movements. Focus on engaging your %s throughout the exercise.", name, muscle)
}

func dedupByName(in []models.Exercise) []models.Exercise {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, e := range in {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out
}
