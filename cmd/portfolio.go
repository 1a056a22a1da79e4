package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/renderer"
	"github.com/google/subcommands"
)

type portfolioCmd struct {
	date string
	json bool
}

func (*portfolioCmd) Name() string { return "portfolio" }
func (*portfolioCmd) Synopsis() string {
	return "display the figures of the whole portfolio on a specific date"
}
func (*portfolioCmd) Usage() string {
	return `tcgp portfolio [-d <date>] [-json]

  Displays the cost, revenue, market value and profit and loss of the
  portfolio on a given date, and how its market value is split among the
  held products.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date for the portfolio report. See the user manual for supported date formats.")
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
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

	report, err := renderer.NewPortfolioReport(p, book, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating portfolio report: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderPortfolio(report, formatter()))
	return subcommands.ExitSuccess
}
