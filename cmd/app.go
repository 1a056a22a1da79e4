// Package cmd implements the CLI application to value a TCG portfolio.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tcgportfolio"
	"github.com/etnz/tcgportfolio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands and the global flags.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	cfg := LoadConfig()
	flag.StringVar(&portfolioFile, "portfolio-file", cfg.PortfolioFile, "Path to the portfolio file (JSON format)")
	flag.StringVar(&pricesFile, "prices-file", cfg.PricesFile, "Path to the market prices file (JSONL format)")
	flag.StringVar(&currency, "currency", cfg.Currency, "Currency of the prices and transactions")
	flag.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&style, "style", cfg.Style, "Style of the reports (dark, light, notty, ascii, raw)")
	prettyLog = cfg.PrettyLog

	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// Commands are the subcommands of the application.
var Commands = []subcommands.Command{
	&holdingCmd{},
	&portfolioCmd{},
	&seriesCmd{},
	&importPricesCmd{},
	&validateCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	portfolioFile string
	pricesFile    string
	currency      string
	logLevel      string
	style         string
	prettyLog     bool
)

// logger returns the application logger, configured by the global flags.
func logger() zerolog.Logger { return NewLogger(logLevel, prettyLog) }

// formatter returns the formatter of the reports.
func formatter() renderer.Formatter { return renderer.Formatter{Currency: currency} }

// DecodePortfolio decodes and validates the portfolio file.
func DecodePortfolio() (*tcgportfolio.Portfolio, error) {
	f, err := os.Open(portfolioFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := tcgportfolio.DecodePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", portfolioFile, err)
	}
	log := logger()
	log.Debug().Str("file", portfolioFile).Str("portfolio", p.Name).Int("holdings", len(p.Holdings)).Msg("portfolio loaded")
	return p, nil
}

// DecodePrices decodes the prices file. A missing file holds no price.
func DecodePrices() ([]tcgportfolio.Price, error) {
	log := logger()
	f, err := os.Open(pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", pricesFile).Msg("prices file does not exist, no product has a market price")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prices, err := tcgportfolio.DecodePrices(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pricesFile, err)
	}
	log.Debug().Str("file", pricesFile).Int("prices", len(prices)).Msg("prices loaded")
	return prices, nil
}

// DecodePriceBook decodes the prices file grouped by product.
func DecodePriceBook() (tcgportfolio.PriceBook, error) {
	prices, err := DecodePrices()
	if err != nil {
		return nil, err
	}
	book, err := tcgportfolio.NewPriceBook(prices)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pricesFile, err)
	}
	return book, nil
}

// printMarkdown renders markdown for the terminal using the style flag.
func printMarkdown(md string) {
	if style == "raw" {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
