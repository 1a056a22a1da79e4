package tcgportfolio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/tcgportfolio/date"
)

// Holding is a position in one product, defined by its transactions.
type Holding struct {
	Product      ProductRef
	Transactions Transactions
}

// ProductID returns the identity of the held product, whether the holding
// refers to it by id or embeds it.
func (h Holding) ProductID() ProductID {
	if h.Product == nil {
		return 0
	}
	return h.Product.productID()
}

// Details returns the embedded product, nil if the holding only refers to it by id.
func (h Holding) Details() *Product {
	p, _ := h.Product.(*Product)
	return p
}

// FirstDate returns the date of the first transaction, false if there is none.
func (h Holding) FirstDate() (date.Date, bool) { return h.Transactions.FirstDate() }

// existsOn reports whether the holding has a transaction on or before day.
func (h Holding) existsOn(day date.Date) bool {
	first, ok := h.FirstDate()
	return ok && !first.After(day)
}

// NewReleaseHolding returns a holding of one unit of product purchased at
// its MSRP on its release date. It is used as a benchmark of what holding
// the product since its release would have returned.
func NewReleaseHolding(product *Product) (Holding, error) {
	if product.ReleaseDate.IsZero() {
		return Holding{}, fmt.Errorf("product %d has no release date", product.ID)
	}
	if product.MSRP.LessThan(MinPrice) {
		return Holding{}, fmt.Errorf("product %d has no MSRP", product.ID)
	}
	return Holding{
		Product:      product,
		Transactions: Transactions{NewPurchase(product.ReleaseDate, 1, product.MSRP)},
	}, nil
}

// MarshalJSON implements the json.Marshaler interface for Holding.
// The product is written as a number or as an object depending on the reference.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	txs := h.Transactions
	if txs == nil {
		txs = Transactions{}
	}
	w.Append("product", h.Product)
	w.Append("transactions", txs)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Holding.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var temp struct {
		Product      json.RawMessage `json:"product"`
		Transactions Transactions    `json:"transactions"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if len(temp.Product) == 0 {
		return errors.New("holding without product")
	}
	ref, err := decodeProductRef(temp.Product)
	if err != nil {
		return fmt.Errorf("invalid holding product %s: %w", temp.Product, err)
	}
	h.Product = ref
	h.Transactions = temp.Transactions
	return nil
}
