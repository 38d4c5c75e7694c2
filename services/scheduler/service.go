package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"everafter/services/cleanup"
)

var (
	ErrAlreadyRunning = errors.New("scheduler already running")
	ErrNotRunning     = errors.New("scheduler not running")
)

// Service runs the retention cleanup on a fixed interval in the background.
type Service struct {
	cleanup  *cleanup.Service
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewService creates a scheduler that runs cleanup every interval.
func NewService(cleanupSvc *cleanup.Service, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Service{cleanup: cleanupSvc, interval: interval}
}

// Start launches the background loop. The first pass runs immediately.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.loop(runCtx)

	log.Printf("[scheduler] started, cleanup every %s", s.interval)
	return nil
}

// Stop halts the loop, waiting for an in-flight pass up to the context
// deadline.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Printf("[scheduler] stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce executes one cleanup pass, containing any panic so a bad pass
// cannot take down the server.
func (s *Service) runOnce() {
	recovered := panics.Try(func() {
		summary, err := s.cleanup.Run(time.Now())
		if err != nil {
			log.Printf("[scheduler] cleanup pass failed: %v", err)
			return
		}
		if summary.Invitations > 0 || summary.Errors > 0 {
			log.Printf("[scheduler] cleanup: %d invitations deleted, %d files removed, %d errors",
				summary.Invitations, summary.Files, summary.Errors)
		}
	})
	if recovered != nil {
		log.Printf("[scheduler] cleanup pass panicked: %v", recovered)
	}
}
