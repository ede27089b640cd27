package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DueTweetProcessor posts tweets whose scheduled time has passed
type DueTweetProcessor interface {
	ProcessScheduledTweets(ctx context.Context) (int, error)
}

// Scheduler runs the due-tweet processor on a cron spec
type Scheduler struct {
	processor DueTweetProcessor
	spec      string
	logger    *slog.Logger
	cron      *cron.Cron
	running   bool
	mu        sync.Mutex

	// busy is held for the whole of a pass; the startup pass and cron ticks
	// share it so the same due batch is never read twice concurrently
	busy sync.Mutex
	wg   sync.WaitGroup
}

// New creates a new scheduler. spec accepts standard cron expressions and
// descriptors such as "@every 1m".
func New(processor DueTweetProcessor, spec string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the job and starts the cron runner. It processes once
// immediately so tweets that fell due during downtime are not delayed.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.process(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron = c
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process(ctx)
	}()
	c.Start()

	s.logger.Info("tweet scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron runner and waits for any pass in progress,
// including the startup one
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.mu.Unlock()

	<-c.Stop().Done()
	s.wg.Wait()
	s.logger.Info("tweet scheduler stopped")
}

// process runs the due-tweet processor once, skipping when a pass is
// already in progress
func (s *Scheduler) process(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.busy.TryLock() {
		s.logger.Debug("previous pass still running, skipping")
		return
	}
	defer s.busy.Unlock()

	s.logger.Debug("processing scheduled tweets")

	n, err := s.processor.ProcessScheduledTweets(ctx)
	if err != nil {
		s.logger.Error("failed to process scheduled tweets", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("posted scheduled tweets", "count", n)
	}
}
