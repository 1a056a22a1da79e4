package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// HoldingReport is the data of a holding report.
type HoldingReport struct {
	ProductID  tcgportfolio.ProductID         `json:"tcgplayerId"`
	// Nil if the holding only refers to the product id.
	Product    *tcgportfolio.Product          `json:"product,omitempty"`
	On         date.Date                      `json:"date"`
	// Time since the first transaction.
	Held       string                         `json:"held,omitempty"`
	Price      metric.Value                   `json:"price"`
	Aggregates tcgportfolio.HoldingAggregates `json:"aggregates"`
	Pnl        tcgportfolio.HoldingPnl        `json:"pnl"`
	// Sales matched against the oldest purchases.
	FifoPnl    metric.Value                   `json:"fifoRealizedPnl"`
	// Since the first transaction.
	Return     metric.Value                   `json:"timeWeightedReturn"`
	Annualized metric.Value                   `json:"annualizedReturn"`
}

// Title returns the product name, or its id when unknown.
func (r *HoldingReport) Title() string {
	if r.Product != nil && r.Product.Name != "" {
		return r.Product.Name
	}
	return "Product " + r.ProductID.String()
}

// NewHoldingReport computes the report of h on day, using the transactions
// dated on or before it and the last price known on that day.
func NewHoldingReport(h tcgportfolio.Holding, prices date.Series, on date.Date) (*HoldingReport, error) {
	txs := h.Transactions.AsOf(on)
	r := &HoldingReport{
		ProductID:  h.ProductID(),
		Product:    h.Details(),
		On:         on,
		Return:     metric.NA,
		Annualized: metric.NA,
	}
	if price, ok := prices.ValueAsOf(on); ok {
		r.Price = price
	}

	var err error
	if r.Aggregates, err = tcgportfolio.ComputeHoldingAggregates(txs); err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ProductID, err)
	}
	if r.Pnl, err = tcgportfolio.ComputeHoldingPnl(txs, r.Price); err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ProductID, err)
	}

	if r.Aggregates.SaleQuantity > 0 {
		cogs, err := txs.CostOfGoodsSold()
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", r.ProductID, err)
		}
		var sold []metric.Value
		for _, c := range cogs.Points() {
			sold = append(sold, c.Value)
		}
		r.FifoPnl = metric.Of(r.Aggregates.TotalRevenue).Sub(metric.Sum(sold...))
	}

	first, ok := txs.FirstDate()
	if !ok {
		return r, nil
	}
	r.Held = date.Span(first, on)
	period := date.NewRange(first, on)
	asOf := tcgportfolio.Holding{Product: h.Product, Transactions: txs}
	if r.Return, err = tcgportfolio.HoldingTimeWeightedReturn(asOf, prices, period, date.FillPolicy{}, false); err != nil {
		return nil, err
	}
	r.Annualized = tcgportfolio.Annualize(r.Return, period)
	return r, nil
}

// PortfolioReport is the data of a portfolio report.
type PortfolioReport struct {
	Name        string                           `json:"name"`
	On          date.Date                        `json:"date"`
	Holdings    int                              `json:"holdings"` // products with a transaction on or before On
	Aggregates  tcgportfolio.PortfolioAggregates `json:"aggregates"`
	Composition tcgportfolio.Composition         `json:"composition"`
	names       map[tcgportfolio.ProductID]string
}

// ProductName returns the name of a product of the portfolio, its id when unknown.
func (r *PortfolioReport) ProductName(id tcgportfolio.ProductID) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	return id.String()
}

// NewPortfolioReport computes the report of p on day, valued at the last
// prices known on that day.
func NewPortfolioReport(p *tcgportfolio.Portfolio, book tcgportfolio.PriceBook, on date.Date) (*PortfolioReport, error) {
	r := &PortfolioReport{
		Name:  p.Name,
		On:    on,
		names: make(map[tcgportfolio.ProductID]string),
	}
	holdings := make([]tcgportfolio.Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if product := h.Details(); product != nil && product.Name != "" {
			r.names[h.ProductID()] = product.Name
		}
		txs := h.Transactions.AsOf(on)
		if len(txs) == 0 {
			continue
		}
		holdings = append(holdings, tcgportfolio.Holding{Product: h.Product, Transactions: txs})
	}
	r.Holdings = len(holdings)

	prices := book.AsOf(on)
	var err error
	if r.Aggregates, err = tcgportfolio.ComputePortfolioAggregates(holdings, prices); err != nil {
		return nil, err
	}
	if r.Composition, err = tcgportfolio.ComputeComposition(holdings, prices); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderHolding renders a holding report to markdown.
func RenderHolding(r *HoldingReport, f Formatter) string {
	return renderTemplate("holding", "holding.md", f, r)
}

// RenderPortfolio renders a portfolio report to markdown.
func RenderPortfolio(r *PortfolioReport, f Formatter) string {
	partials := map[string]string{
		"portfolio_composition": "portfolio_composition.md",
	}
	if len(r.Composition.Weights) == 0 {
		partials["portfolio_composition"] = ""
	}
	return renderTemplate("portfolio", "portfolio.md", f, r, partials)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, f Formatter, data any, partials ...map[string]string) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	funcs := f.funcs()
	funcs["value"] = metric.Of[decimal.Decimal]
	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for _, p := range partials {
		for name, file := range p {
			var content []byte
			// An empty file name is a valid case, resulting in an empty template.
			if file != "" {
				content, err = fs.ReadFile(templates, "templates/"+file)
				if err != nil {
					return fmt.Sprintf("error reading partial template %q: %v", file, err)
				}
			}
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
			}
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
