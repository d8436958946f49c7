package live

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ticker is anything advanced by the supervisor.
type Ticker interface {
	Tick(ctx context.Context, elapsed time.Duration)
}

// Supervisor drives a Ticker from a single background ticker goroutine.
type Supervisor struct {
	target   Ticker
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSupervisor returns a stopped supervisor ticking target every interval
// (one second when interval is not positive).
func NewSupervisor(target Ticker, log *slog.Logger, interval time.Duration) *Supervisor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Supervisor{target: target, log: log, interval: interval}
}

// Start begins the tick loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("tick supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(childCtx, s.done)
	s.log.Info("tick supervisor started", "interval", s.interval)
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info("tick supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.target.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}
