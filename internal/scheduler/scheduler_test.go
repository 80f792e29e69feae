package scheduler

import (
	"context"
	"strings"
	"testing"

	"FareSentinel/internal/collector"
	"FareSentinel/internal/model"
	"FareSentinel/internal/notifier"
)

type captureNotifier struct {
	sent []string
}

func (c *captureNotifier) Send(text string) error {
	c.sent = append(c.sent, text)
	return nil
}

func newTestScheduler(months []model.MonthGrid) (*Scheduler, *captureNotifier) {
	n := &captureNotifier{}
	col := collector.NewCollector(&collector.MockSource{Months: months}, nil, 0, "")
	return NewScheduler(context.Background(), col, notifier.NewFormatter("Rs"), n), n
}

func TestRunNow_SendsReport(t *testing.T) {
	s, n := newTestScheduler([]model.MonthGrid{
		{Title: "Oct", Cells: []model.PriceCell{{DateLabel: "Oct 21", RawPriceText: "₹5,000"}}},
		{Title: "Nov", Cells: []model.PriceCell{{DateLabel: "Nov 02", RawPriceText: "₹4,000"}}},
	})
	s.RunNow()
	if len(n.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(n.sent))
	}
	if !strings.Contains(n.sent[0], "Rs 4000 (Next Month)") {
		t.Errorf("unexpected report:\n%s", n.sent[0])
	}
}

func TestRunNow_ReportsFailure(t *testing.T) {
	s, n := newTestScheduler([]model.MonthGrid{{Title: "Oct"}})
	s.RunNow()
	if len(n.sent) != 1 || !strings.Contains(n.sent[0], "invalid month index") {
		t.Fatalf("expected failure notice, got %v", n.sent)
	}
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler([]model.MonthGrid{
		{Title: "Oct", Cells: []model.PriceCell{{DateLabel: "Oct 21", RawPriceText: "sold out"}}},
		{Title: "Nov", Cells: []model.PriceCell{{DateLabel: "Nov 02", RawPriceText: "₹4,000"}}},
	})
	if got := s.HandleCommand("/compare"); !strings.Contains(got, notifier.IncomparableText) {
		t.Errorf("expected incomparable report, got:\n%s", got)
	}
	if got := s.HandleCommand("/whatever"); got != notifier.FormatHelp() {
		t.Errorf("expected help text, got %q", got)
	}
}

func TestRegister_BadCron(t *testing.T) {
	s, _ := newTestScheduler(nil)
	if err := s.Register("not a cron"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if err := s.Register("0 */30 * * * *"); err != nil {
		t.Fatalf("register: %v", err)
	}
}
