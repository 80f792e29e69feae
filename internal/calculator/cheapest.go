package calculator

import "FareSentinel/internal/model"

// FindCheapest scans cells in order and returns the cheapest valid one.
// Ties keep the earliest cell. A month with no valid price yields model.NoPriceData().
func FindCheapest(p *PriceParser, cells []model.PriceCell) model.MonthPriceResult {
	best := model.Invalid
	label := ""
	for _, c := range cells {
		price := p.Parse(c.RawPriceText)
		if price.Less(best) {
			best = price
			label = c.DateLabel
		}
	}
	if !best.Valid {
		return model.NoPriceData()
	}
	return model.Found(label, best.Amount)
}
