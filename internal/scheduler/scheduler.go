package scheduler

import (
	"fmt"
	"log"
	"time"

	"ExchangeLedger/internal/ledger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the time-triggered jobs. The only one today is the daily
// reset that zeroes every group's accumulators at the local day boundary.
type Scheduler struct {
	Cron   *cron.Cron
	Ledger *ledger.Service
}

// NewScheduler creates a Scheduler pinned to the given timezone.
func NewScheduler(svc *ledger.Service, loc *time.Location) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Ledger: svc,
	}
}

// RegisterAll registers the daily reset task.
func (s *Scheduler) RegisterAll(resetCron string) error {
	if _, err := s.Cron.AddFunc(resetCron, s.dailyReset); err != nil {
		return fmt.Errorf("register daily reset: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunResetNow executes the daily reset immediately (manual trigger).
func (s *Scheduler) RunResetNow() {
	s.dailyReset()
}

func (s *Scheduler) dailyReset() {
	log.Println("[INFO] running daily reset")
	n := s.Ledger.ResetAll()
	log.Printf("[INFO] daily reset complete, %d group(s) cleared", n)
}
