package notifier

import (
	"fmt"
	"strings"

	"FareSentinel/internal/model"
)

const (
	NoPriceDataText  = "No price data found"
	IncomparableText = "Unable to extract price values for comparison."
	labelSeparator   = " — "
)

// Formatter renders comparison results for display. Zero value uses "Rs".
type Formatter struct {
	Currency string
}

// NewFormatter creates a Formatter using the given currency label.
func NewFormatter(currency string) Formatter {
	return Formatter{Currency: currency}
}

func (f Formatter) currency() string {
	if f.Currency == "" {
		return "Rs"
	}
	return f.Currency
}

// FormatResult renders one month's cheapest price as a single line.
func (f Formatter) FormatResult(r model.MonthPriceResult) string {
	if !r.Found {
		return NoPriceDataText
	}
	return fmt.Sprintf("%s%s%s%d", r.DateLabel, labelSeparator, f.currency(), r.Amount)
}

// FormatVerdict renders the sentence for a comparison verdict.
func (f Formatter) FormatVerdict(c *model.Comparison) string {
	switch c.Verdict {
	case model.VerdictCurrentLower:
		return fmt.Sprintf("The lowest price between the two months is %s %d (Current Month).", f.currency(), c.Current.Amount)
	case model.VerdictNextLower:
		return fmt.Sprintf("The lowest price between the two months is %s %d (Next Month).", f.currency(), c.Next.Amount)
	case model.VerdictEqual:
		return "Price is same for both months! Choose whichever you prefer."
	default:
		return IncomparableText
	}
}

// FormatReport renders the full two-month report.
func (f Formatter) FormatReport(c *model.Comparison) string {
	var b strings.Builder
	b.WriteString("Lowest Price Details:\n")
	b.WriteString(fmt.Sprintf("- Current Month: %s\n", f.FormatResult(c.Current)))
	b.WriteString(fmt.Sprintf("- Next Month: %s\n\n", f.FormatResult(c.Next)))
	if c.Verdict != model.VerdictIncomparable {
		b.WriteString("Price Comparison Result:\n")
	}
	b.WriteString(f.FormatVerdict(c))
	b.WriteString("\n")
	return b.String()
}

// FormatHelp lists the commands understood in watch mode.
func FormatHelp() string {
	return "Available commands:\n• /compare - run the two-month comparison now\n• /help - show this message"
}
