package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/etnz/tcgportfolio/renderer"
	"github.com/google/subcommands"
)

type seriesCmd struct {
	start     string
	end       string
	period    string
	product   int
	fill      string
	fillValue string
	json      bool
}

func (*seriesCmd) Name() string { return "series" }
func (*seriesCmd) Synopsis() string {
	return "display the daily performance series of the portfolio or of a holding"
}
func (*seriesCmd) Usage() string {
	return `tcgp series [-s <start>] [-d <end>] [-p <period>] [-product <id>] [-fill <method>] [-fill-value <price>] [-json]

  Values the portfolio, or a single holding with -product, on every day of
  the range and prints its market value, cost and profit and loss, one row
  per period.

  Days without market price are filled from the previous known price (-fill locf)
  or with a constant price (-fill value -fill-value <price>).
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Start date of the series, defaults to the first transaction")
	f.StringVar(&c.end, "d", date.Today().String(), "End date of the series")
	f.StringVar(&c.period, "p", "month", "Period of the rows (day, week, month, quarter, year)")
	f.IntVar(&c.product, "product", 0, "value only the holding of this product id")
	f.StringVar(&c.fill, "fill", "locf", "Method to fill the days without market price (locf, value)")
	f.StringVar(&c.fillValue, "fill-value", "", "Price used with -fill value, n/a if empty")
	f.BoolVar(&c.json, "json", false, "print the daily series as JSON")
}

func (c *seriesCmd) fillPolicy() (date.FillPolicy, error) {
	method, err := date.ParseFillMethod(c.fill)
	if err != nil {
		return date.FillPolicy{}, err
	}
	policy := date.FillPolicy{Method: method}
	if c.fillValue != "" {
		if policy.Value, err = metric.Parse(c.fillValue); err != nil {
			return date.FillPolicy{}, fmt.Errorf("invalid fill value: %w", err)
		}
	}
	return policy, nil
}

func (c *seriesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	fill, err := c.fillPolicy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	book, err := DecodePriceBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	holdings, title := p.Holdings, p.Name
	if c.product != 0 {
		h := p.Holding(tcgportfolio.ProductID(c.product))
		if h == nil {
			fmt.Fprintf(os.Stderr, "Error: product %d is not held in %q\n", c.product, p.Name)
			return subcommands.ExitFailure
		}
		holdings = []tcgportfolio.Holding{*h}
		title = fmt.Sprintf("Product %d", c.product)
		if product := h.Details(); product != nil && product.Name != "" {
			title = product.Name
		}
	}

	var start date.Date
	if c.start != "" {
		if start, err = date.Parse(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	} else {
		var ok bool
		probe := tcgportfolio.Portfolio{Holdings: holdings}
		if start, ok = probe.FirstTransactionDate(); !ok {
			fmt.Fprintln(os.Stderr, "Error: no transaction, use -s to set the start date")
			return subcommands.ExitFailure
		}
	}
	r := date.NewRange(start, end)
	log := logger()
	log.Debug().Stringer("range", r).Stringer("fill", fill.Method).Int("holdings", len(holdings)).Msg("computing series")

	var columns []renderer.Column
	if c.product != 0 {
		s, err := tcgportfolio.ComputeHoldingSeries(holdings[0], book[holdings[0].ProductID()], r, fill)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
			return subcommands.ExitFailure
		}
		if c.json {
			return c.printJSON(s)
		}
		columns = renderer.HoldingColumns(s)
	} else {
		s, err := tcgportfolio.ComputePortfolioSeries(holdings, book, r, fill)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing series: %v\n", err)
			return subcommands.ExitFailure
		}
		if c.json {
			return c.printJSON(s)
		}
		columns = renderer.PortfolioColumns(s)
	}

	md, err := renderer.SeriesMarkdown(title, r, period, formatter(), columns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering series: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func (c *seriesCmd) printJSON(v any) subcommands.ExitStatus {
	if err := printJSON(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing series: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
