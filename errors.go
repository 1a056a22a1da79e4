package tcgportfolio

import (
	"errors"
	"fmt"

	"github.com/etnz/tcgportfolio/date"
)

// ErrInvariant is wrapped by every error reporting inconsistent input data.
var ErrInvariant = errors.New("invariant violation")

// NegativeQuantityError reports more units sold than purchased.
type NegativeQuantityError struct {
	On        date.Date // zero when the whole transaction list is considered
	Purchased int
	Sold      int
}

func (e *NegativeQuantityError) Error() string {
	if e.On.IsZero() {
		return fmt.Sprintf("negative quantity: %d sold but only %d purchased", e.Sold, e.Purchased)
	}
	return fmt.Sprintf("negative quantity on %s: %d sold but only %d purchased", e.On, e.Sold, e.Purchased)
}

func (e *NegativeQuantityError) Unwrap() error { return ErrInvariant }

// InvalidTransactionError reports a transaction with invalid fields.
type InvalidTransactionError struct {
	Index       int
	Transaction Transaction
	Reason      string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction #%d (%s on %s): %s", e.Index, e.Transaction.Type, e.Transaction.Date, e.Reason)
}

func (e *InvalidTransactionError) Unwrap() error { return ErrInvariant }

// DuplicateHoldingError reports two holdings of the same product in a portfolio.
type DuplicateHoldingError struct {
	ProductID ProductID
}

func (e *DuplicateHoldingError) Error() string {
	return fmt.Sprintf("product %d is held twice", e.ProductID)
}

func (e *DuplicateHoldingError) Unwrap() error { return ErrInvariant }
