package model

// Verdict classifies two months' cheapest prices relative to each other.
type Verdict int

const (
	VerdictIncomparable Verdict = iota
	VerdictCurrentLower
	VerdictEqual
	VerdictNextLower
)

func (v Verdict) String() string {
	switch v {
	case VerdictCurrentLower:
		return "CURRENT_LOWER"
	case VerdictEqual:
		return "EQUAL"
	case VerdictNextLower:
		return "NEXT_LOWER"
	default:
		return "INCOMPARABLE"
	}
}

// MarshalText renders the verdict by name in JSON payloads.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Comparison holds one run over the current and next month.
type Comparison struct {
	Current MonthPriceResult `json:"current"`
	Next    MonthPriceResult `json:"next"`
	Verdict Verdict          `json:"verdict"`
}
