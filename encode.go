package tcgportfolio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

// DecodePortfolio reads a portfolio in JSON format and validates it.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	p := new(Portfolio)
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("cannot decode portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePortfolio writes a portfolio in indented JSON format.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Price is an observed market price of a product.
type Price struct {
	ProductID    ProductID       `json:"tcgplayerId"`
	Date         date.Date       `json:"date"`
	MarketPrice  decimal.Decimal `json:"marketPrice"`
	Interpolated bool            `json:"isInterpolated"` // the price was interpolated from neighbour observations
}

// MarshalJSON implements the json.Marshaler interface for Price.
func (p Price) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("tcgplayerId", p.ProductID)
	w.Append("date", p.Date)
	w.Append("marketPrice", json.Number(p.MarketPrice.String()))
	w.Optional("isInterpolated", p.Interpolated)
	return w.MarshalJSON()
}

// DecodePrices reads prices in JSON Lines format, one Price per line.
// Blank lines are ignored.
func DecodePrices(r io.Reader) ([]Price, error) {
	var prices []Price
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var p Price
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("line %d: invalid price: %w", line, err)
		}
		if p.ProductID <= 0 {
			return nil, fmt.Errorf("line %d: price without tcgplayerId", line)
		}
		prices = append(prices, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read prices: %w", err)
	}
	return prices, nil
}

// EncodePrices writes prices in JSON Lines format.
func EncodePrices(w io.Writer, prices []Price) error {
	enc := json.NewEncoder(w)
	for _, p := range prices {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// PriceBook holds the price series of every product.
type PriceBook map[ProductID]date.Series

// NewPriceBook groups prices by product.
// It fails with an error wrapping a *date.DuplicateDateError if a product
// has two prices on the same day.
func NewPriceBook(prices []Price) (PriceBook, error) {
	points := make(map[ProductID][]date.Point)
	for _, p := range prices {
		points[p.ProductID] = append(points[p.ProductID], date.Point{On: p.Date, Value: metric.Of(p.MarketPrice)})
	}
	book := make(PriceBook, len(points))
	for id, pts := range points {
		s, err := date.FromPoints(pts)
		if err != nil {
			return nil, fmt.Errorf("prices of product %d: %w", id, err)
		}
		book[id] = s
	}
	return book, nil
}

// AsOf returns the last known price of every product on or before day.
func (b PriceBook) AsOf(day date.Date) map[ProductID]decimal.Decimal {
	prices := make(map[ProductID]decimal.Decimal, len(b))
	for id, s := range b {
		if v, ok := s.ValueAsOf(day); ok {
			prices[id] = v.OrZero()
		}
	}
	return prices
}
