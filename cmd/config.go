package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read at startup. They provide the default value of
// the global flags and are passed on to extensions.
const (
	EnvPortfolioFile = "TCGP_PORTFOLIO_FILE"
	EnvPricesFile    = "TCGP_PRICES_FILE"
	EnvCurrency      = "TCGP_CURRENCY"
	EnvLogLevel      = "TCGP_LOG_LEVEL"
	EnvPretty        = "TCGP_PRETTY_LOG"
	EnvStyle         = "TCGP_STYLE"
)

// Config holds the application configuration.
type Config struct {
	PortfolioFile string
	PricesFile    string
	Currency      string
	LogLevel      string // debug, info, warn, error
	PrettyLog     bool
	Style         string // glamour style of the reports, "raw" prints plain markdown
}

// LoadConfig reads the configuration from the environment, after loading
// the .env file of the working directory if there is one.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		PortfolioFile: getEnv(EnvPortfolioFile, "portfolio.json"),
		PricesFile:    getEnv(EnvPricesFile, "prices.jsonl"),
		Currency:      getEnv(EnvCurrency, "USD"),
		LogLevel:      getEnv(EnvLogLevel, "warn"),
		PrettyLog:     getEnvAsBool(EnvPretty, true),
		Style:         getEnv(EnvStyle, "dark"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
