package tcgportfolio

import (
	"encoding/json"
	"strconv"

	"github.com/etnz/tcgportfolio/date"
	"github.com/shopspring/decimal"
)

// ProductID is the TCGplayer identifier of a product.
type ProductID int

// String returns the id in decimal.
func (id ProductID) String() string { return strconv.Itoa(int(id)) }

// ParseProductID parses a decimal product id.
func ParseProductID(s string) (ProductID, error) {
	id, err := strconv.Atoi(s)
	return ProductID(id), err
}

// Product describes a sealed product.
type Product struct {
	ID          ProductID       `json:"tcgplayerId"`
	Name        string          `json:"name"`
	TCG         string          `json:"tcg,omitempty"`
	Type        string          `json:"type,omitempty"`
	Subtype     string          `json:"subtype,omitempty"`
	Language    string          `json:"language,omitempty"`
	ReleaseDate date.Date       `json:"releaseDate"`
	MSRP        decimal.Decimal `json:"msrp"`
}

// ProductRef refers to the product of a holding. It is either a ProductID or
// a *Product.
type ProductRef interface {
	productID() ProductID
}

func (id ProductID) productID() ProductID { return id }

func (p *Product) productID() ProductID {
	if p == nil {
		return 0
	}
	return p.ID
}

// decodeProductRef decodes a ProductID from a JSON number and a *Product from a JSON object.
func decodeProductRef(data []byte) (ProductRef, error) {
	var id ProductID
	if err := json.Unmarshal(data, &id); err == nil {
		return id, nil
	}
	p := new(Product)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}
