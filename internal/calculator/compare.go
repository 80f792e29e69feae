package calculator

import "FareSentinel/internal/model"

// Compare classifies the current month's cheapest price against the next month's.
func Compare(current, next model.MonthPriceResult) model.Verdict {
	if !current.Found || !next.Found {
		return model.VerdictIncomparable
	}
	switch {
	case current.Amount < next.Amount:
		return model.VerdictCurrentLower
	case current.Amount == next.Amount:
		return model.VerdictEqual
	default:
		return model.VerdictNextLower
	}
}

// CompareMonths runs FindCheapest over both months and compares the results.
func CompareMonths(p *PriceParser, current, next []model.PriceCell) *model.Comparison {
	cur := FindCheapest(p, current)
	nxt := FindCheapest(p, next)
	return &model.Comparison{
		Current: cur,
		Next:    nxt,
		Verdict: Compare(cur, nxt),
	}
}
