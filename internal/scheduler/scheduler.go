package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"FareSentinel/internal/collector"
	"FareSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
)

// retrier is implemented by notifiers that can retry delivery.
type retrier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the fare comparison on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Formatter notifier.Formatter
	Notifier  notifier.Notifier
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, f notifier.Formatter, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Formatter: f,
		Notifier:  n,
		Ctx:       ctx,
	}
}

// Register adds the comparison task under watchCron.
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.compareTask); err != nil {
		return fmt.Errorf("register compare task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the comparison task immediately.
func (s *Scheduler) RunNow() {
	s.compareTask()
}

// Report runs one comparison and renders it.
func (s *Scheduler) Report() (string, error) {
	cmp, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		return "", err
	}
	return s.Formatter.FormatReport(cmp), nil
}

func (s *Scheduler) compareTask() {
	log.Println("[INFO] running fare comparison")
	report, err := s.Report()
	if err != nil {
		if errors.Is(err, collector.ErrInvalidMonthIndex) {
			log.Printf("[ERROR] calendar does not show two months: %v", err)
		} else {
			log.Printf("[ERROR] fare comparison: %v", err)
		}
		s.trySend(fmt.Sprintf("❌ fare comparison failed: %v", err))
		return
	}
	s.trySend(report)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch strings.ToLower(command) {
	case "/compare", "compare":
		report, err := s.Report()
		if err != nil {
			log.Printf("[ERROR] command compare: %v", err)
			return fmt.Sprintf("❌ fare comparison failed: %v", err)
		}
		return report
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	var err error
	if r, ok := s.Notifier.(retrier); ok {
		err = r.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Notifier.Send(text)
	}
	if err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
