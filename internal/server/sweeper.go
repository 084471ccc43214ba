package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"klaew-klad/internal/database"
)

// AlertSweeper deletes expired alerts on a cron schedule
type AlertSweeper struct {
	alerts   database.AlertRepository
	cron     *cron.Cron
	schedule string
	now      func() time.Time
}

// NewAlertSweeper validates the schedule and registers the sweep job
func NewAlertSweeper(alerts database.AlertRepository, schedule string) (*AlertSweeper, error) {
	s := &AlertSweeper{
		alerts:   alerts,
		cron:     cron.New(),
		schedule: schedule,
		now:      time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid alert sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the sweep in the background
func (s *AlertSweeper) Start() {
	s.cron.Start()
	log.Printf("[CRON] Alert sweeper started: schedule=%s", s.schedule)
}

// Stop halts the scheduler and waits for a running sweep, up to ctx
func (s *AlertSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Printf("[CRON] Alert sweeper stop timed out")
	}
}

func (s *AlertSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		log.Printf("[ERROR] Alert sweep failed: err=%v", err)
	}
}

// Sweep deletes every alert expired at the current time
func (s *AlertSweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.alerts.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[CRON] Removed expired alerts: count=%d", n)
	}
	return n, nil
}
