package tcgportfolio

import (
	"fmt"

	"github.com/etnz/tcgportfolio/date"
	"github.com/google/uuid"
)

// Portfolio is a named set of holdings, at most one per product.
//
// It holds no figure: every metric is derived on demand from its holdings.
type Portfolio struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Owner       int       `json:"owner"`
	Description string    `json:"description,omitempty"`
	Holdings    []Holding `json:"holdings"`
}

// NewPortfolio returns an empty portfolio with a fresh identifier.
func NewPortfolio(name string, owner int) *Portfolio {
	return &Portfolio{ID: uuid.New(), Name: name, Owner: owner}
}

// Holding returns the holding of product id, nil if there is none.
func (p *Portfolio) Holding(id ProductID) *Holding {
	for i := range p.Holdings {
		if p.Holdings[i].ProductID() == id {
			return &p.Holdings[i]
		}
	}
	return nil
}

// ProductIDs returns the ids of the held products, in holding order.
func (p *Portfolio) ProductIDs() []ProductID {
	ids := make([]ProductID, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		ids = append(ids, h.ProductID())
	}
	return ids
}

// FirstTransactionDate returns the date of the earliest transaction of all holdings.
func (p *Portfolio) FirstTransactionDate() (date.Date, bool) {
	var (
		first date.Date
		found bool
	)
	for _, h := range p.Holdings {
		d, ok := h.FirstDate()
		if ok && (!found || d.Before(first)) {
			first, found = d, true
		}
	}
	return first, found
}

// Validate checks that products are held once and that every holding has
// valid transactions.
func (p *Portfolio) Validate() error {
	seen := make(map[ProductID]bool, len(p.Holdings))
	for _, h := range p.Holdings {
		id := h.ProductID()
		if id <= 0 {
			return fmt.Errorf("portfolio %q: holding without product id", p.Name)
		}
		if seen[id] {
			return fmt.Errorf("portfolio %q: %w", p.Name, &DuplicateHoldingError{ProductID: id})
		}
		seen[id] = true
		if err := h.Transactions.Validate(); err != nil {
			return fmt.Errorf("portfolio %q, product %d: %w", p.Name, id, err)
		}
	}
	return nil
}
