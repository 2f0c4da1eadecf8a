package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders monetary amounts for display: currency symbol,
// thousands grouping, two decimal places. Amounts are stored as plain
// numbers everywhere; this is presentation only.
type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for an ISO 4217 currency code
// rendered in the given BCP 47 locale (e.g. "USD", "en-US").
func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("unknown currency code %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q: %w", locale, err)
	}
	return &CurrencyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

// Format renders the amount, e.g. 5000 -> "$5,000.00" for USD in en-US.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	value, _ := amount.Float64()
	return f.printer.Sprintf("%v%v",
		currency.Symbol(f.unit),
		number.Decimal(value, number.MinFractionDigits(2), number.MaxFractionDigits(2)),
	)
}
