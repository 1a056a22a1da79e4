package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	date    string
	release bool
	json    bool
}

func (*holdingCmd) Name() string { return "holding" }
func (*holdingCmd) Synopsis() string {
	return "display the figures of a product holding on a specific date"
}
func (*holdingCmd) Usage() string {
	return `tcgp holding [-d <date>] [-release] [-json] <product id>

  Displays the quantity, cost, revenue and profit and loss of the holding of
  a product on a given date, valued at the last known market price.

  With -release, the holding is replaced by a single unit bought at the
  product MSRP on its release date.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date for the holding report. See the user manual for supported date formats.")
	f.BoolVar(&c.release, "release", false, "value one unit bought at MSRP on the release date instead of the holding")
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: holding requires exactly one product id")
		return subcommands.ExitUsageError
	}
	id, err := tcgportfolio.ParseProductID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing product id: %v\n", err)
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

	h := p.Holding(id)
	if h == nil {
		fmt.Fprintf(os.Stderr, "Error: product %s is not held in %q\n", id, p.Name)
		return subcommands.ExitFailure
	}
	holding := *h
	if c.release {
		product := h.Details()
		if product == nil {
			fmt.Fprintf(os.Stderr, "Error: product %s has no details, release date and MSRP are unknown\n", id)
			return subcommands.ExitFailure
		}
		if holding, err = tcgportfolio.NewReleaseHolding(product); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	report, err := renderer.NewHoldingReport(holding, book[id], on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating holding report: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderHolding(report, formatter()))
	return subcommands.ExitSuccess
}
