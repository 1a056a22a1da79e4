package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/date"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type importPricesCmd struct {
	date       string
	path       string
	idField    string
	priceField string
	dryRun     bool
}

func (*importPricesCmd) Name() string { return "import-prices" }
func (*importPricesCmd) Synopsis() string {
	return "import market prices from a JSON price dump into the prices file"
}
func (*importPricesCmd) Usage() string {
	return `tcgp import-prices [-d <date>] [-path <jsonpath>] [-id-field <name>] [-price-field <name>] [-n] <file>...

  Reads the market prices of a JSON document (a tcgcsv.com price dump by
  default) and appends them to the prices file as observed on the given date.
  Use "-" to read the document from stdin.

  Prices already known for a product on that date are kept and the new ones
  are skipped.
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the observed prices")
	f.StringVar(&c.path, "path", "", "JSONPath selecting the price records, defaults to $.results[*]")
	f.StringVar(&c.idField, "id-field", "", "Field of the record holding the product id, defaults to productId")
	f.StringVar(&c.priceField, "price-field", "", "Field of the record holding the price, defaults to marketPrice")
	f.BoolVar(&c.dryRun, "n", false, "print the new prices instead of appending them")
}

func (c *importPricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: import-prices requires at least one file")
		return subcommands.ExitUsageError
	}
	log := logger()

	known, err := DecodePrices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	imp := tcgportfolio.PriceImport{Path: c.path, IDField: c.idField, PriceField: c.priceField}
	var imported []tcgportfolio.Price
	for _, name := range f.Args() {
		prices, err := c.importFile(imp, name, on, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		imported = append(imported, prices...)
	}

	fresh := newPrices(known, imported, log)
	if c.dryRun {
		if err := tcgportfolio.EncodePrices(os.Stdout, fresh); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing prices: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := os.OpenFile(pricesFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening prices file %q: %v\n", pricesFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := tcgportfolio.EncodePrices(out, fresh); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to prices file %q: %v\n", pricesFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended %s prices to %s\n", humanize.Comma(int64(len(fresh))), pricesFile)
	return subcommands.ExitSuccess
}

func (c *importPricesCmd) importFile(imp tcgportfolio.PriceImport, name string, on date.Date, log zerolog.Logger) ([]tcgportfolio.Price, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	prices, skipped, err := imp.Import(r, on)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn().Str("file", name).Int("skipped", skipped).Msg("records without price skipped")
	}
	log.Info().Str("file", name).Int("prices", len(prices)).Msg("price document imported")
	return prices, nil
}

// newPrices returns the imported prices whose product has no known price on
// the same day, keeping the first one of duplicated imports.
func newPrices(known, imported []tcgportfolio.Price, log zerolog.Logger) []tcgportfolio.Price {
	type key struct {
		id tcgportfolio.ProductID
		on date.Date
	}
	seen := make(map[key]bool, len(known))
	for _, p := range known {
		seen[key{p.ProductID, p.Date}] = true
	}
	var fresh []tcgportfolio.Price
	for _, p := range imported {
		k := key{p.ProductID, p.Date}
		if seen[k] {
			log.Warn().Stringer("product", p.ProductID).Stringer("date", p.Date).Msg("price already known, skipped")
			continue
		}
		seen[k] = true
		fresh = append(fresh, p)
	}
	return fresh
}
