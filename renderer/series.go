package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
)

// ColumnKind tells how a column is summarized over a period.
type ColumnKind int

const (
	// Level columns show their value on the last day of the period.
	Level ColumnKind = iota
	// Flow columns show the sum of their values over the period.
	Flow
	// Ratio columns are levels printed as percentages.
	Ratio
)

// Column is a named daily series of a series report.
type Column struct {
	Name   string
	Kind   ColumnKind
	Points []date.Point
}

// HoldingColumns returns the columns of a holding series.
func HoldingColumns(s tcgportfolio.HoldingSeries) []Column {
	return []Column{
		{Name: "Market value", Kind: Level, Points: s.MarketValue},
		{Name: "Cost", Kind: Level, Points: s.Cost},
		{Name: "P&L", Kind: Level, Points: s.Pnl},
		{Name: "Period P&L", Kind: Flow, Points: s.DailyPnl},
		{Name: "Net flow", Kind: Flow, Points: s.NetFlow},
	}
}

// PortfolioColumns returns the columns of a portfolio series.
func PortfolioColumns(s tcgportfolio.PortfolioSeries) []Column {
	columns := HoldingColumns(tcgportfolio.HoldingSeries{
		MarketValue: s.MarketValue,
		Cost:        s.Cost,
		Pnl:         s.Pnl,
		DailyPnl:    s.DailyPnl,
		NetFlow:     s.NetFlow,
	})
	return append(columns, Column{Name: "Return on cost", Kind: Ratio, Points: s.PercentPnl})
}

// SeriesMarkdown renders daily columns as a table with one row per period
// of r. Rows where every column is undefined are omitted.
func SeriesMarkdown(title string, r date.Range, period date.Period, f Formatter, columns ...Column) (string, error) {
	series := make([]date.Series, len(columns))
	for i, c := range columns {
		s, err := date.FromPoints(c.Points)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", c.Name, err)
		}
		series[i] = s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "*%s, %s*\n\n", r, period)
	fmt.Fprint(&b, "| Period |")
	for _, c := range columns {
		fmt.Fprintf(&b, " %s |", c.Name)
	}
	fmt.Fprint(&b, "\n|:---|")
	for range columns {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b)

	for p := range r.Periods(period) {
		// clip the period to the range
		in := date.NewRange(maxDate(p.From, r.From), minDate(p.To, r.To))
		ConditionalBlock(&b, func(w io.Writer) bool {
			defined := false
			fmt.Fprintf(w, "| %s |", p.Identifier())
			for i, c := range columns {
				v := summarize(series[i], in, c.Kind)
				defined = defined || !v.IsNA()
				switch c.Kind {
				case Ratio:
					fmt.Fprintf(w, " %s |", f.SignedPercent(v))
				case Flow:
					fmt.Fprintf(w, " %s |", f.SignedMoney(v))
				default:
					fmt.Fprintf(w, " %s |", f.Money(v))
				}
			}
			fmt.Fprintln(w)
			return defined
		})
	}
	return b.String(), nil
}

func summarize(s date.Series, in date.Range, kind ColumnKind) metric.Value {
	if kind != Flow {
		v, _ := s.Get(in.To)
		return v
	}
	var values []metric.Value
	for day := range in.Days() {
		v, _ := s.Get(day)
		values = append(values, v)
	}
	return metric.Sum(values...)
}

func minDate(a, b date.Date) date.Date {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b date.Date) date.Date {
	if a.After(b) {
		return a
	}
	return b
}
