// Command tcgp values a portfolio of sealed trading card game products.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tcgportfolio/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	completion().Complete("tcgp")

	flag.Parse()
	if name := flag.Arg(0); name != "" && !isCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func isCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	dates := predict.Set{"0d", "-1d", "-1w", "-1m", "-1y"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"portfolio-file": predict.Files("*.json"),
			"prices-file":    predict.Files("*.jsonl"),
			"currency":       predict.Set{"USD", "EUR", "GBP", "JPY", "CAD"},
			"log-level":      predict.Set{"debug", "info", "warn", "error"},
			"style":          predict.Set{"dark", "light", "notty", "ascii", "raw"},
		},
		Sub: map[string]*complete.Command{
			"holding": {
				Flags: map[string]complete.Predictor{"d": dates, "release": predict.Nothing, "json": predict.Nothing},
				Args:  predict.Something,
			},
			"portfolio": {
				Flags: map[string]complete.Predictor{"d": dates, "json": predict.Nothing},
			},
			"series": {
				Flags: map[string]complete.Predictor{
					"s":          dates,
					"d":          dates,
					"p":          predict.Set{"day", "week", "month", "quarter", "year"},
					"product":    predict.Something,
					"fill":       predict.Set{"locf", "value"},
					"fill-value": predict.Something,
					"json":       predict.Nothing,
				},
			},
			"import-prices": {
				Flags: map[string]complete.Predictor{
					"d":           dates,
					"path":        predict.Something,
					"id-field":    predict.Something,
					"price-field": predict.Something,
					"n":           predict.Nothing,
				},
				Args: predict.Files("*.json"),
			},
			"validate": {},
			"topic": {
				Args: predict.Set{"dates", "portfolio", "prices", "metrics"},
			},
		},
	}
}
