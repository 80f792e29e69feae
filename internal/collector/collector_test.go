package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"FareSentinel/internal/calculator"
	"FareSentinel/internal/model"
)

func twoMonths() []model.MonthGrid {
	return []model.MonthGrid{
		{Title: "October 2026", Cells: []model.PriceCell{
			{DateLabel: "Choose Tuesday, October 20th, 2026", RawPriceText: "₹5,100"},
			{DateLabel: "Choose Wednesday, October 21st, 2026", RawPriceText: "₹4,870"},
			{DateLabel: "Choose Thursday, October 22nd, 2026", RawPriceText: ""},
		}},
		{Title: "November 2026", Cells: []model.PriceCell{
			{DateLabel: "Choose Monday, November 2nd, 2026", RawPriceText: "₹4,990"},
			{DateLabel: "Choose Tuesday, November 3rd, 2026", RawPriceText: "₹4,990"},
		}},
	}
}

func TestCollect_CurrentLower(t *testing.T) {
	src := &MockSource{Months: twoMonths(), Overlay: true}
	col := NewCollector(src, calculator.NewPriceParser(), time.Second, "Choose ")

	cmp, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !src.Dismissed || !src.OpenCalled {
		t.Error("expected both navigation steps to run")
	}
	if cmp.Current != model.Found("Wednesday, October 21st, 2026", 4870) {
		t.Errorf("unexpected current: %+v", cmp.Current)
	}
	if cmp.Next != model.Found("Monday, November 2nd, 2026", 4990) {
		t.Errorf("unexpected next (tie must keep earliest): %+v", cmp.Next)
	}
	if cmp.Verdict != model.VerdictCurrentLower {
		t.Errorf("expected CURRENT_LOWER, got %s", cmp.Verdict)
	}
}

func TestCollect_NavigationFailuresAreNotFatal(t *testing.T) {
	src := &MockSource{Months: twoMonths(), OpenErr: errors.New("selector timeout")}
	col := NewCollector(src, nil, 0, "")

	cmp, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("navigation failures must not propagate: %v", err)
	}
	if cmp.Verdict != model.VerdictCurrentLower {
		t.Errorf("expected CURRENT_LOWER, got %s", cmp.Verdict)
	}
	if cmp.Current.DateLabel != "Choose Wednesday, October 21st, 2026" {
		t.Errorf("label should be untouched without a prefix, got %q", cmp.Current.DateLabel)
	}
}

func TestCollect_NoPriceDataIsIncomparable(t *testing.T) {
	months := twoMonths()
	months[1].Cells = []model.PriceCell{{DateLabel: "x", RawPriceText: "sold out"}}
	col := NewCollector(&MockSource{Months: months}, nil, 0, "")

	cmp, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if cmp.Next.Found {
		t.Errorf("expected no price data, got %+v", cmp.Next)
	}
	if cmp.Verdict != model.VerdictIncomparable {
		t.Errorf("expected INCOMPARABLE, got %s", cmp.Verdict)
	}
}

func TestCollect_SingleMonthIsInvalidIndex(t *testing.T) {
	col := NewCollector(&MockSource{Months: twoMonths()[:1]}, nil, 0, "")
	_, err := col.Collect(context.Background())
	if !errors.Is(err, ErrInvalidMonthIndex) {
		t.Fatalf("expected ErrInvalidMonthIndex, got %v", err)
	}
}

func TestCollect_SourceErrors(t *testing.T) {
	locateErr := errors.New("grid not visible")
	_, err := NewCollector(&MockSource{Months: twoMonths(), LocateErr: locateErr}, nil, 0, "").Collect(context.Background())
	if !errors.Is(err, locateErr) {
		t.Errorf("expected locate error, got %v", err)
	}

	cellsErr := errors.New("stale element")
	_, err = NewCollector(&MockSource{Months: twoMonths(), CellsErr: cellsErr}, nil, 0, "").Collect(context.Background())
	if !errors.Is(err, cellsErr) {
		t.Errorf("expected cells error, got %v", err)
	}
}

func TestSelectMonth(t *testing.T) {
	grids := []model.MonthHandle{{Index: 0, Title: "Oct"}, {Index: 1, Title: "Nov"}}
	for _, idx := range []int{-1, 2, 10} {
		if _, err := SelectMonth(grids, idx); !errors.Is(err, ErrInvalidMonthIndex) {
			t.Errorf("index %d: expected ErrInvalidMonthIndex, got %v", idx, err)
		}
	}
	h, err := SelectMonth(grids, 1)
	if err != nil || h.Title != "Nov" {
		t.Errorf("expected Nov, got %+v (err=%v)", h, err)
	}
}
