package tcgportfolio

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/tcgportfolio/date"
	"github.com/shopspring/decimal"
)

// TransactionType is either Purchase or Sale.
type TransactionType string

const (
	Purchase TransactionType = "purchase"
	Sale     TransactionType = "sale"
)

// MinPrice is the lowest unit price a transaction can have.
var MinPrice = decimal.New(1, -2)

// Transaction is a single purchase or sale of units of a product.
type Transaction struct {
	Type     TransactionType `json:"type"`
	Date     date.Date       `json:"date"`
	Price    decimal.Decimal `json:"price"`    // Price is the unit price.
	Quantity int             `json:"quantity"` // Quantity is the number of units exchanged.
}

// NewPurchase creates a purchase of quantity units at price each.
func NewPurchase(on date.Date, quantity int, price decimal.Decimal) Transaction {
	return Transaction{Type: Purchase, Date: on, Price: price, Quantity: quantity}
}

// NewSale creates a sale of quantity units at price each.
func NewSale(on date.Date, quantity int, price decimal.Decimal) Transaction {
	return Transaction{Type: Sale, Date: on, Price: price, Quantity: quantity}
}

// Amount returns the quantity times the unit price.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// Equal reports whether t and o are the same transaction.
func (t Transaction) Equal(o Transaction) bool {
	return t.Type == o.Type && t.Date == o.Date && t.Price.Equal(o.Price) && t.Quantity == o.Quantity
}

// check returns the reason why t is invalid, or "".
func (t Transaction) check() string {
	switch {
	case t.Type != Purchase && t.Type != Sale:
		return fmt.Sprintf("unknown type %q", t.Type)
	case t.Date.IsZero():
		return "date is missing"
	case t.Quantity < 1:
		return fmt.Sprintf("quantity must be at least 1, got %d", t.Quantity)
	case t.Price.LessThan(MinPrice):
		return fmt.Sprintf("price must be at least %s, got %s", MinPrice, t.Price)
	}
	return ""
}

// Validate checks the transaction fields.
func (t Transaction) Validate() error {
	if reason := t.check(); reason != "" {
		return &InvalidTransactionError{Transaction: t, Reason: reason}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
// Prices are written as JSON numbers.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	w.Append("price", json.Number(t.Price.String()))
	w.Append("quantity", t.Quantity)
	return w.MarshalJSON()
}
