package calculator

import (
	"strconv"
	"strings"

	"FareSentinel/internal/model"
)

// DefaultStrip holds the currency glyph and thousands separator seen on fare calendars.
var DefaultStrip = []string{"₹", ","}

// PriceParser turns raw price text into a ParsedPrice.
// It is immutable after construction and safe for concurrent use.
type PriceParser struct {
	replacer *strings.Replacer
}

// NewPriceParser creates a parser that removes every token in strip before parsing.
// With no tokens it falls back to DefaultStrip.
func NewPriceParser(strip ...string) *PriceParser {
	if len(strip) == 0 {
		strip = DefaultStrip
	}
	pairs := make([]string, 0, len(strip)*2)
	for _, s := range strip {
		if s == "" {
			continue
		}
		pairs = append(pairs, s, "")
	}
	return &PriceParser{replacer: strings.NewReplacer(pairs...)}
}

// Parse returns the amount in raw, or model.Invalid when raw does not reduce
// to a base-10 non-negative integer.
func (p *PriceParser) Parse(raw string) model.ParsedPrice {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.Invalid
	}
	s = strings.TrimSpace(p.replacer.Replace(s))
	if s == "" {
		return model.Invalid
	}
	// ParseUint rejects signs; bitSize 63 keeps the value inside int64.
	v, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return model.Invalid
	}
	return model.PriceOf(int64(v))
}
