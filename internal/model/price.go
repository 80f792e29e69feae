package model

// ParsedPrice is either a non-negative amount or Invalid.
// Invalid orders above every valid amount.
type ParsedPrice struct {
	Amount int64
	Valid  bool
}

// Invalid is the parse outcome for text that is not a usable price.
var Invalid = ParsedPrice{}

// PriceOf wraps a known amount.
func PriceOf(amount int64) ParsedPrice {
	return ParsedPrice{Amount: amount, Valid: true}
}

// Less reports whether p is strictly cheaper than o.
func (p ParsedPrice) Less(o ParsedPrice) bool {
	if !p.Valid {
		return false
	}
	if !o.Valid {
		return true
	}
	return p.Amount < o.Amount
}

// MonthPriceResult is the cheapest valid cell of one month, or "no price data".
type MonthPriceResult struct {
	Found     bool   `json:"found"`
	DateLabel string `json:"date_label,omitempty"`
	Amount    int64  `json:"amount"`
}

// NoPriceData is the result for a month without any valid price.
func NoPriceData() MonthPriceResult {
	return MonthPriceResult{}
}

// Found builds a result for a cell that carried a valid amount.
func Found(label string, amount int64) MonthPriceResult {
	return MonthPriceResult{Found: true, DateLabel: label, Amount: amount}
}
