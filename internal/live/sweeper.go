package live

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// TokenPurger drops expired login tokens. It returns how many were removed.
type TokenPurger interface {
	PurgeExpired() int
}

// Sweeper periodically drops idle live entries and expired tokens.
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	tokens   TokenPurger
	idle     time.Duration
	log      *slog.Logger
}

// NewSweeper schedules a sweep on spec, a cron expression or descriptor
// such as "@every 5m". tokens may be nil.
func NewSweeper(spec string, registry *Registry, tokens TokenPurger, idle time.Duration, log *slog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:     cron.New(),
		registry: registry,
		tokens:   tokens,
		idle:     idle,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return nil, fmt.Errorf("scheduling sweep %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.Info("sweeper started", "idle_timeout", s.idle)
}

// Stop halts the schedule and waits for a running sweep.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep runs one pass immediately.
func (s *Sweeper) Sweep() {
	entries := s.registry.Sweep(s.idle)
	var tokens int
	if s.tokens != nil {
		tokens = s.tokens.PurgeExpired()
	}
	if entries > 0 || tokens > 0 {
		s.log.Info("sweep", "entries", entries, "tokens", tokens)
	}
}
