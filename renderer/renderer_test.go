package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tables parses markdown and returns the cells of every table, header included.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	src := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var result [][][]string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case extast.KindTable:
			result = append(result, nil)
		case extast.KindTableHeader, extast.KindTableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, strings.TrimSpace(string(c.Text(src))))
			}
			result[len(result)-1] = append(result[len(result)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("ast.Walk() error = %v", err)
	}
	return result
}

// lookup returns the second cell of the row whose first cell is key.
func lookup(table [][]string, key string) string {
	for _, row := range table {
		if len(row) > 1 && row[0] == key {
			return row[1]
		}
	}
	return ""
}

func day(m time.Month, d int) date.Date { return date.New(2025, m, d) }

func testHolding() tcgportfolio.Holding {
	return tcgportfolio.Holding{
		Product: &tcgportfolio.Product{ID: 42, Name: "Booster Box"},
		Transactions: tcgportfolio.Transactions{
			tcgportfolio.NewPurchase(day(time.January, 1), 10, decimal.NewFromInt(5)),
			tcgportfolio.NewSale(day(time.February, 1), 4, decimal.NewFromInt(8)),
		},
	}
}

func TestFormatter(t *testing.T) {
	f := Formatter{Currency: "USD"}
	testCases := []struct {
		got, want string
	}{
		{f.Money(metric.Of(1234.5)), "$1,234.50"},
		{f.Money(metric.Of(0.005)), "$0.01"},
		{f.Money(metric.NA), NA},
		{f.SignedMoney(metric.Of(12)), "+$12.00"},
		{f.SignedMoney(metric.Zero), "$0.00"},
		{f.Percent(metric.Of(0.36)), "36.00%"},
		{f.SignedPercent(metric.Of(-0.125)), "-12.50%"},
		{f.SignedPercent(metric.NA), NA},
		{f.Weight(0.75), "75.0%"},
		{Formatter{}.Money(metric.Of(3)), "$3.00"},
	}
	for i, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("#%d: got %q, want %q", i, tc.got, tc.want)
		}
	}
}

func TestRenderHolding(t *testing.T) {
	prices := date.MustFromPoints(date.Point{On: day(time.January, 1), Value: metric.Of(6)})
	r, err := NewHoldingReport(testHolding(), prices, day(time.March, 1))
	if err != nil {
		t.Fatalf("NewHoldingReport() error = %v", err)
	}
	md := RenderHolding(r, Formatter{Currency: "USD"})
	if !strings.HasPrefix(md, "# Booster Box\n") {
		t.Errorf("RenderHolding() title is wrong:\n%s", md)
	}
	if !strings.Contains(md, "held for 2 months") {
		t.Errorf("RenderHolding() should mention the holding duration:\n%s", md)
	}

	got := tables(t, md)
	if len(got) != 3 {
		t.Fatalf("RenderHolding() has %d tables, want 3:\n%s", len(got), md)
	}
	checks := []struct {
		table      int
		key, value string
	}{
		{0, "Quantity held", "6"},
		{0, "Market value", "$36.00"},
		{1, "Purchases", "10"},
		{2, "Realized P&L", "+$12.00"},
		{2, "Realized P&L (FIFO)", "+$12.00"},
		{2, "Unrealized P&L", "+$6.00"},
		{2, "Total P&L", "+$18.00"},
		{2, "Return on cost", "+36.00%"},
	}
	for _, c := range checks {
		if v := lookup(got[c.table], c.key); v != c.value {
			t.Errorf("%q = %q, want %q", c.key, v, c.value)
		}
	}
}

func TestRenderHolding_BeforeFirstTransaction(t *testing.T) {
	r, err := NewHoldingReport(testHolding(), date.Series{}, day(time.January, 1).Add(-1))
	if err != nil {
		t.Fatalf("NewHoldingReport() error = %v", err)
	}
	got := tables(t, RenderHolding(r, Formatter{}))
	if v := lookup(got[2], "Total P&L"); v != NA {
		t.Errorf("Total P&L = %q, want %q", v, NA)
	}
	if v := lookup(got[0], "Market value"); v != "$0.00" {
		t.Errorf("Market value = %q, want $0.00 when nothing is held", v)
	}
}

func TestRenderPortfolio(t *testing.T) {
	p := tcgportfolio.NewPortfolio("Sealed", 1)
	p.Holdings = []tcgportfolio.Holding{
		testHolding(),
		{Product: tcgportfolio.ProductID(7), Transactions: tcgportfolio.Transactions{
			tcgportfolio.NewPurchase(day(time.January, 5), 2, decimal.NewFromInt(10)),
		}},
	}
	book := tcgportfolio.PriceBook{
		42: date.MustFromPoints(date.Point{On: day(time.January, 1), Value: metric.Of(6)}),
		7:  date.MustFromPoints(date.Point{On: day(time.January, 1), Value: metric.Of(6)}),
	}
	r, err := NewPortfolioReport(p, book, day(time.March, 1))
	if err != nil {
		t.Fatalf("NewPortfolioReport() error = %v", err)
	}
	md := RenderPortfolio(r, Formatter{Currency: "USD"})
	got := tables(t, md)
	if len(got) != 2 {
		t.Fatalf("RenderPortfolio() has %d tables, want 2:\n%s", len(got), md)
	}
	if v := lookup(got[0], "Total cost"); v != "$70.00" {
		t.Errorf("Total cost = %q, want $70.00", v)
	}
	if v := lookup(got[0], "Market value"); v != "$48.00" {
		t.Errorf("Market value = %q, want $48.00", v)
	}
	if v := lookup(got[1], "Booster Box"); v != "$36.00" {
		t.Errorf("Booster Box market value = %q, want $36.00", v)
	}
	if v := lookup(got[1], "7"); v != "$12.00" {
		t.Errorf("product 7 market value = %q, want $12.00", v)
	}
}

func TestRenderPortfolio_NoComposition(t *testing.T) {
	p := tcgportfolio.NewPortfolio("Empty", 1)
	r, err := NewPortfolioReport(p, nil, day(time.March, 1))
	if err != nil {
		t.Fatalf("NewPortfolioReport() error = %v", err)
	}
	md := RenderPortfolio(r, Formatter{})
	if strings.Contains(md, "Composition") {
		t.Errorf("RenderPortfolio() should skip the composition of an empty portfolio:\n%s", md)
	}
	if v := lookup(tables(t, md)[0], "Market value"); v != NA {
		t.Errorf("Market value = %q, want %q", v, NA)
	}
}

func TestSeriesMarkdown(t *testing.T) {
	prices := date.MustFromPoints(date.Point{On: day(time.January, 3), Value: metric.Of(6)})
	r := date.NewRange(day(time.January, 1), day(time.February, 10))
	s, err := tcgportfolio.ComputeHoldingSeries(testHolding(), prices, r, date.FillPolicy{})
	if err != nil {
		t.Fatalf("ComputeHoldingSeries() error = %v", err)
	}
	md, err := SeriesMarkdown("Booster Box", r, date.Monthly, Formatter{}, HoldingColumns(s)...)
	if err != nil {
		t.Fatalf("SeriesMarkdown() error = %v", err)
	}
	got := tables(t, md)
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("SeriesMarkdown() = %v, want a header and two monthly rows:\n%s", got, md)
	}
	want := [][]string{
		{"Period", "Market value", "Cost", "P&L", "Period P&L", "Net flow"},
		{"2025-01", "$60.00", "$50.00", "+$10.00", "+$10.00", "+$50.00"},
		{"2025-02", "$36.00", "$50.00", "+$18.00", "+$8.00", "-$32.00"},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("SeriesMarkdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestSeriesMarkdown_SkipsUndefinedRows(t *testing.T) {
	r := date.NewRange(day(time.January, 1), day(time.March, 31))
	points := []date.Point{{On: day(time.March, 2), Value: metric.Of(3)}}
	md, err := SeriesMarkdown("Prices", r, date.Monthly, Formatter{}, Column{Name: "Price", Points: points})
	if err != nil {
		t.Fatalf("SeriesMarkdown() error = %v", err)
	}
	got := tables(t, md)
	if len(got[0]) != 1 {
		t.Errorf("SeriesMarkdown() rows = %v, want only the header", got[0])
	}

	// march has a value on the 2nd but not at its end.
	md, _ = SeriesMarkdown("Prices", r, date.Monthly, Formatter{}, Column{Name: "Flow", Kind: Flow, Points: points})
	if got := tables(t, md); len(got[0]) != 2 || got[0][1][1] != "+$3.00" {
		t.Errorf("SeriesMarkdown() rows = %v, want a single march row", got[0])
	}
}

func TestSeriesMarkdown_DuplicateDate(t *testing.T) {
	points := []date.Point{{On: day(time.March, 2)}, {On: day(time.March, 2)}}
	if _, err := SeriesMarkdown("x", date.NewRange(day(time.March, 1), day(time.March, 3)), date.Daily, Formatter{}, Column{Points: points}); err == nil {
		t.Error("SeriesMarkdown() error = nil, want duplicate date error")
	}
}

func TestNewHoldingReport_FifoPnl(t *testing.T) {
	h := tcgportfolio.Holding{
		Product: tcgportfolio.ProductID(3),
		Transactions: tcgportfolio.Transactions{
			tcgportfolio.NewPurchase(day(time.January, 1), 1, decimal.NewFromInt(2)),
			tcgportfolio.NewPurchase(day(time.January, 2), 1, decimal.NewFromInt(10)),
			tcgportfolio.NewSale(day(time.January, 3), 1, decimal.NewFromInt(12)),
		},
	}
	r, err := NewHoldingReport(h, date.Series{}, day(time.January, 31))
	if err != nil {
		t.Fatalf("NewHoldingReport() error = %v", err)
	}
	if !r.Aggregates.RealizedPnl.Equal(metric.Of(6)) {
		t.Errorf("RealizedPnl = %v, want 6 at average cost", r.Aggregates.RealizedPnl)
	}
	if !r.FifoPnl.Equal(metric.Of(10)) {
		t.Errorf("FifoPnl = %v, want 10 against the first purchase", r.FifoPnl)
	}
	if r.Title() != "Product 3" {
		t.Errorf("Title() = %q, want %q", r.Title(), "Product 3")
	}
}
