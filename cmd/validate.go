package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type validateCmd struct{}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check the portfolio and prices files" }
func (*validateCmd) Usage() string {
	return `tcgp validate

  Checks that every transaction of the portfolio is valid, that no holding
  ever sells more units than it purchased, and that no product has two
  prices on the same day.
`
}

func (*validateCmd) SetFlags(*flag.FlagSet) {}

func (*validateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := DecodePortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	book, err := DecodePriceBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid prices: %v\n", err)
		return subcommands.ExitFailure
	}

	log := logger()
	for _, id := range p.ProductIDs() {
		if _, ok := book[id]; !ok {
			log.Warn().Stringer("product", id).Msg("no market price")
		}
	}
	fmt.Printf("%s: %d holdings, %d priced products\n", p.Name, len(p.Holdings), len(book))
	return subcommands.ExitSuccess
}
