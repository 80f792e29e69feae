package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"FareSentinel/internal/model"
)

var (
	// ErrNoOverlay is returned by DismissLeadingOverlay when no overlay is shown.
	ErrNoOverlay = errors.New("overlay not shown")
	// ErrSelectorClosed is returned when month grids are requested before the date selector is open.
	ErrSelectorClosed = errors.New("date selector not open")
	// ErrUnknownMonth is returned by CellsOf for a handle the source never produced.
	ErrUnknownMonth = errors.New("unknown month handle")
)

// CalendarSource is the calendar-access capability the collector consumes.
type CalendarSource interface {
	DismissLeadingOverlay(ctx context.Context) error
	OpenDateSelector(ctx context.Context) error
	LocateMonthGrids(ctx context.Context) ([]model.MonthHandle, error)
	CellsOf(ctx context.Context, month model.MonthHandle) ([]model.PriceCell, error)
	Name() string
}

// Calendar is the document shape shared by the fixture, HTTP and snapshot sources.
type Calendar struct {
	Overlay bool              `json:"overlay" yaml:"overlay"`
	Months  []model.MonthGrid `json:"months" yaml:"months"`
}

// calendarView serves LocateMonthGrids and CellsOf over a loaded Calendar.
// fresh marks a calendar loaded by the overlay step that the following open may reuse.
type calendarView struct {
	mu    sync.RWMutex
	cal   *Calendar
	fresh bool
}

func (v *calendarView) set(cal *Calendar) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cal = cal
	v.fresh = false
}

func (v *calendarView) setFresh(cal *Calendar) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cal = cal
	v.fresh = true
}

// takeFresh reports whether a fresh calendar is loaded and consumes the mark.
func (v *calendarView) takeFresh() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	ok := v.fresh && v.cal != nil
	v.fresh = false
	return ok
}

func (v *calendarView) get() *Calendar {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cal
}

func (v *calendarView) LocateMonthGrids(_ context.Context) ([]model.MonthHandle, error) {
	cal := v.get()
	if cal == nil {
		return nil, ErrSelectorClosed
	}
	handles := make([]model.MonthHandle, len(cal.Months))
	for i, m := range cal.Months {
		handles[i] = model.MonthHandle{Index: i, Title: m.Title}
	}
	return handles, nil
}

func (v *calendarView) CellsOf(_ context.Context, month model.MonthHandle) ([]model.PriceCell, error) {
	cal := v.get()
	if cal == nil {
		return nil, ErrSelectorClosed
	}
	if month.Index < 0 || month.Index >= len(cal.Months) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMonth, month.Index)
	}
	cells := cal.Months[month.Index].Cells
	return append([]model.PriceCell(nil), cells...), nil
}

// LoaderSource serves the calendar produced by load. Each run loads it once.
type LoaderSource struct {
	calendarView
	name string
	load func(ctx context.Context) (*Calendar, error)
}

// NewLoaderSource creates a source named name backed by load.
func NewLoaderSource(name string, load func(ctx context.Context) (*Calendar, error)) *LoaderSource {
	return &LoaderSource{name: name, load: load}
}

func (s *LoaderSource) Name() string { return s.name }

// DismissLeadingOverlay loads the calendar for this run and reports ErrNoOverlay unless
// it carries an overlay. Loaded calendars have nothing to click, so a present overlay is
// only acknowledged. A failed load leaves the selector closed.
func (s *LoaderSource) DismissLeadingOverlay(ctx context.Context) error {
	s.set(nil)
	cal, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.setFresh(cal)
	if !cal.Overlay {
		return ErrNoOverlay
	}
	return nil
}

// OpenDateSelector makes month grids available. It reuses the calendar loaded by
// DismissLeadingOverlay in the same run, otherwise it loads one. A failed load
// leaves the selector closed, so a previous run's calendar is never served.
func (s *LoaderSource) OpenDateSelector(ctx context.Context) error {
	if s.takeFresh() {
		return nil
	}
	s.set(nil)
	if err := ctx.Err(); err != nil {
		return err
	}
	cal, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.set(cal)
	return nil
}
