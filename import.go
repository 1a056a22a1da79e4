package tcgportfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tcgportfolio/date"
	"github.com/shopspring/decimal"
)

// PriceImport describes where price observations are found in a JSON document.
//
// The default values match the price dumps of tcgcsv.com:
//
//	{"results": [{"productId": 12345, "marketPrice": 4.56, ...}, ...]}
type PriceImport struct {
	Path       string // JSONPath selecting the records, "$.results[*]" by default.
	IDField    string // record field holding the product id, "productId" by default.
	PriceField string // record field holding the market price, "marketPrice" by default.
}

func (imp PriceImport) withDefaults() PriceImport {
	if imp.Path == "" {
		imp.Path = "$.results[*]"
	}
	if imp.IDField == "" {
		imp.IDField = "productId"
	}
	if imp.PriceField == "" {
		imp.PriceField = "marketPrice"
	}
	return imp
}

// Import reads the JSON document from r and returns the prices observed on day.
//
// Records without price (null or missing) are skipped and counted.
func (imp PriceImport) Import(r io.Reader, day date.Date) (prices []Price, skipped int, err error) {
	imp = imp.withDefaults()
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, 0, fmt.Errorf("cannot decode price document: %w", err)
	}
	jval, err := jsonpath.Get(imp.Path, jobj)
	if err != nil {
		return nil, 0, fmt.Errorf("error evaluating %q: %w", imp.Path, err)
	}
	// jsonpath returns a single value for a definite path, a list otherwise.
	records, ok := jval.([]any)
	if !ok {
		records = []any{jval}
	}

	for i, rec := range records {
		fields, ok := rec.(map[string]any)
		if !ok {
			return nil, 0, fmt.Errorf("record #%d of %q is not an object", i, imp.Path)
		}
		id, err := productIDValue(fields[imp.IDField])
		if err != nil {
			return nil, 0, fmt.Errorf("record #%d: field %q: %w", i, imp.IDField, err)
		}
		price, ok, err := priceValue(fields[imp.PriceField])
		if err != nil {
			return nil, 0, fmt.Errorf("record #%d (product %d): field %q: %w", i, id, imp.PriceField, err)
		}
		if !ok {
			skipped++
			continue
		}
		prices = append(prices, Price{ProductID: id, Date: day, MarketPrice: price})
	}
	return prices, skipped, nil
}

func productIDValue(v any) (ProductID, error) {
	switch x := v.(type) {
	case float64:
		if x != float64(int(x)) || x <= 0 {
			return 0, fmt.Errorf("invalid product id %v", x)
		}
		return ProductID(x), nil
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid product id %q", x)
		}
		return ProductID(id), nil
	default:
		return 0, fmt.Errorf("missing product id")
	}
}

// priceValue reads a price from a JSON number or string, false when absent.
func priceValue(v any) (decimal.Decimal, bool, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case float64:
		return decimal.NewFromFloat(x), true, nil
	case string:
		// some dumps write prices as strings, sometimes with a decimal comma.
		x = strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		if x == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid price %q: %w", x, err)
		}
		return d, true, nil
	default:
		return decimal.Zero, false, fmt.Errorf("invalid price %v", x)
	}
}
