package collector

import (
	"context"

	"FareSentinel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	calendarView
	Months     []model.MonthGrid
	Overlay    bool
	OpenErr    error
	LocateErr  error
	CellsErr   error
	Dismissed  bool
	OpenCalled bool
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) DismissLeadingOverlay(_ context.Context) error {
	if !m.Overlay {
		return ErrNoOverlay
	}
	m.Dismissed = true
	return nil
}

func (m *MockSource) OpenDateSelector(_ context.Context) error {
	m.OpenCalled = true
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.set(&Calendar{Overlay: m.Overlay, Months: m.Months})
	return nil
}

func (m *MockSource) LocateMonthGrids(ctx context.Context) ([]model.MonthHandle, error) {
	if m.LocateErr != nil {
		return nil, m.LocateErr
	}
	if m.get() == nil {
		// Tests may skip navigation; serve the configured months directly.
		m.set(&Calendar{Overlay: m.Overlay, Months: m.Months})
	}
	return m.calendarView.LocateMonthGrids(ctx)
}

func (m *MockSource) CellsOf(ctx context.Context, month model.MonthHandle) ([]model.PriceCell, error) {
	if m.CellsErr != nil {
		return nil, m.CellsErr
	}
	return m.calendarView.CellsOf(ctx, month)
}
