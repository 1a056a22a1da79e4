package renderer

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/tcgportfolio/metric"
)

// NA is printed in place of undefined figures.
const NA = "n/a"

// DefaultCurrency is used when a Formatter has no currency.
const DefaultCurrency = money.USD

// Formatter prints figures for reports.
type Formatter struct {
	Currency string // ISO 4217 code of the amounts
}

func (f Formatter) currency() money.Currency {
	code := f.Currency
	if code == "" {
		code = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, code).Currency()
}

// Money formats an amount in the formatter currency.
func (f Formatter) Money(v metric.Value) string {
	d, ok := v.Get()
	if !ok {
		return NA
	}
	cur := f.currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedMoney is like Money with an explicit + for positive amounts.
func (f Formatter) SignedMoney(v metric.Value) string {
	s := f.Money(v)
	if d, ok := v.Get(); ok && d.IsPositive() {
		return "+" + s
	}
	return s
}

// Percent formats a ratio as a percentage, 0.36 is "36.00%".
func (f Formatter) Percent(v metric.Value) string {
	x, ok := v.Float64()
	if !ok {
		return NA
	}
	return fmt.Sprintf("%.2f%%", 100*x)
}

// SignedPercent is like Percent with an explicit sign.
func (f Formatter) SignedPercent(v metric.Value) string {
	x, ok := v.Float64()
	if !ok {
		return NA
	}
	return fmt.Sprintf("%+.2f%%", 100*x)
}

// Weight formats a share of a total, 0.75 is "75.0%".
func (f Formatter) Weight(w float64) string {
	return fmt.Sprintf("%.1f%%", 100*w)
}

func (f Formatter) funcs() map[string]any {
	return map[string]any{
		"money":         f.Money,
		"signedMoney":   f.SignedMoney,
		"percent":       f.Percent,
		"signedPercent": f.SignedPercent,
		"weight":        f.Weight,
	}
}
