package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"FareSentinel/internal/calculator"
	"FareSentinel/internal/model"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidMonthIndex marks a request for a month panel outside the visible range.
// It is a caller defect, not a data-quality condition.
var ErrInvalidMonthIndex = errors.New("invalid month index")

const (
	CurrentMonth = 0
	NextMonth    = 1
)

// Collector drives a CalendarSource and runs the price comparison over its months.
// Runs are serialized because a source holds the calendar of the run in progress.
type Collector struct {
	mu          sync.Mutex
	Source      CalendarSource
	Parser      *calculator.PriceParser
	Wait        time.Duration
	LabelPrefix string
}

// NewCollector creates a new Collector. wait bounds each navigation step and the grid lookup.
func NewCollector(src CalendarSource, parser *calculator.PriceParser, wait time.Duration, labelPrefix string) *Collector {
	if parser == nil {
		parser = calculator.NewPriceParser()
	}
	return &Collector{Source: src, Parser: parser, Wait: wait, LabelPrefix: labelPrefix}
}

// SelectMonth returns the month panel at index.
func SelectMonth(grids []model.MonthHandle, index int) (model.MonthHandle, error) {
	if index < 0 || index >= len(grids) {
		return model.MonthHandle{}, fmt.Errorf("%w: %d (visible: %d)", ErrInvalidMonthIndex, index, len(grids))
	}
	return grids[index], nil
}

// Collect opens the calendar, reads the current and next month and compares their cheapest prices.
func (c *Collector) Collect(ctx context.Context) (*model.Comparison, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prepare(ctx)

	locateCtx, cancel := c.bounded(ctx)
	grids, err := c.Source.LocateMonthGrids(locateCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("locate month grids: %w", err)
	}
	log.Printf("[INFO] calendar loaded: %d months visible (source=%s)", len(grids), c.Source.Name())

	current, err := SelectMonth(grids, CurrentMonth)
	if err != nil {
		return nil, err
	}
	next, err := SelectMonth(grids, NextMonth)
	if err != nil {
		return nil, err
	}

	var currentCells, nextCells []model.PriceCell
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cells, err := c.Source.CellsOf(gctx, current)
		if err != nil {
			return fmt.Errorf("read cells of %q: %w", current.Title, err)
		}
		currentCells = c.normalize(cells)
		return nil
	})
	g.Go(func() error {
		cells, err := c.Source.CellsOf(gctx, next)
		if err != nil {
			return fmt.Errorf("read cells of %q: %w", next.Title, err)
		}
		nextCells = c.normalize(cells)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return calculator.CompareMonths(c.Parser, currentCells, nextCells), nil
}

// prepare runs the one-shot navigation steps. Failures are logged, never returned.
func (c *Collector) prepare(ctx context.Context) {
	dctx, cancel := c.bounded(ctx)
	err := c.Source.DismissLeadingOverlay(dctx)
	cancel()
	switch {
	case errors.Is(err, ErrNoOverlay):
		log.Println("[INFO] pop-up not shown on the screen")
	case err != nil:
		log.Printf("[WARN] dismiss overlay: %v", err)
	}

	octx, cancel := c.bounded(ctx)
	err = c.Source.OpenDateSelector(octx)
	cancel()
	if err != nil {
		log.Printf("[WARN] open date selector: %v", err)
	}
}

func (c *Collector) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Wait <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Wait)
}

func (c *Collector) normalize(cells []model.PriceCell) []model.PriceCell {
	if c.LabelPrefix == "" {
		return cells
	}
	out := make([]model.PriceCell, len(cells))
	for i, cell := range cells {
		out[i] = model.PriceCell{
			DateLabel:    strings.TrimSpace(strings.TrimPrefix(cell.DateLabel, c.LabelPrefix)),
			RawPriceText: cell.RawPriceText,
		}
	}
	return out
}
