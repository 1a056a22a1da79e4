package tcgportfolio

import (
	"slices"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

// Transactions is the list of transactions of a holding, in insertion order.
//
// Its methods compute the aggregates of the holding. Ratios and averages are
// metric.NA when their denominator is empty.
type Transactions []Transaction

// position is the running tally of a list of transactions.
type position struct {
	purchased, sold int
	cost, revenue   decimal.Decimal
}

func (p *position) add(t Transaction) {
	switch t.Type {
	case Purchase:
		p.purchased += t.Quantity
		p.cost = p.cost.Add(t.Amount())
	case Sale:
		p.sold += t.Quantity
		p.revenue = p.revenue.Add(t.Amount())
	}
}

func (p position) quantity() (int, error) {
	if q := p.purchased - p.sold; q >= 0 {
		return q, nil
	}
	return 0, &NegativeQuantityError{Purchased: p.purchased, Sold: p.sold}
}

func (p position) averageCost() metric.Value {
	return metric.Of(p.cost).Div(metric.Of(p.purchased))
}

func (p position) averageRevenue() metric.Value {
	return metric.Of(p.revenue).Div(metric.Of(p.sold))
}

// costOf returns the average cost of quantity units, exactly the total cost
// when quantity is every unit purchased.
func (p position) costOf(quantity int) metric.Value {
	return metric.Of(p.cost).Mul(metric.Of(quantity)).Div(metric.Of(p.purchased))
}

// realizedPnl values sales against the blended average cost, without lot matching.
func (p position) realizedPnl() metric.Value {
	if p.sold == 0 {
		return metric.NA
	}
	return metric.Of(p.revenue).Sub(p.costOf(p.sold))
}

func (p position) unrealizedPnl(price metric.Value) (metric.Value, error) {
	q, err := p.quantity()
	if err != nil {
		return metric.NA, err
	}
	if q == 0 {
		return metric.NA, nil
	}
	return metric.Of(q).Mul(price).Sub(p.costOf(q)), nil
}

func (p position) totalPnl(price metric.Value) (metric.Value, error) {
	unrealized, err := p.unrealizedPnl(price)
	if err != nil {
		return metric.NA, err
	}
	realized := p.realizedPnl()
	if !realized.IsNA() && !unrealized.IsNA() {
		// revenue + value - cost, without the rounding of the split.
		q, _ := p.quantity()
		return metric.Of(p.revenue).Add(metric.Of(q).Mul(price)).Sub(metric.Of(p.cost)), nil
	}
	// a missing term counts as zero, unless both are missing.
	return metric.Sum(realized, unrealized), nil
}

func (txs Transactions) position() position {
	var p position
	for _, t := range txs {
		p.add(t)
	}
	return p
}

// PurchaseQuantity returns the number of units purchased.
func (txs Transactions) PurchaseQuantity() int { return txs.position().purchased }

// SaleQuantity returns the number of units sold.
func (txs Transactions) SaleQuantity() int { return txs.position().sold }

// Quantity returns the number of units held.
// It fails with a *NegativeQuantityError if more units were sold than purchased.
func (txs Transactions) Quantity() (int, error) { return txs.position().quantity() }

// TotalCost returns the sum of quantity times price over purchases.
func (txs Transactions) TotalCost() decimal.Decimal { return txs.position().cost }

// TotalRevenue returns the sum of quantity times price over sales.
func (txs Transactions) TotalRevenue() decimal.Decimal { return txs.position().revenue }

// AverageCost returns the average unit price of purchases, NA without purchases.
func (txs Transactions) AverageCost() metric.Value { return txs.position().averageCost() }

// AverageRevenue returns the average unit price of sales, NA without sales.
func (txs Transactions) AverageRevenue() metric.Value { return txs.position().averageRevenue() }

// RealizedPnl returns the profit of sales against the average cost, NA without sales.
func (txs Transactions) RealizedPnl() metric.Value { return txs.position().realizedPnl() }

// UnrealizedPnl returns the profit of the units held if they were sold at
// price, NA when nothing is held or price is NA.
func (txs Transactions) UnrealizedPnl(price metric.Value) (metric.Value, error) {
	return txs.position().unrealizedPnl(price)
}

// TotalPnl returns the realized plus unrealized profit.
// A missing term counts as zero, it is NA only if both are.
func (txs Transactions) TotalPnl(price metric.Value) (metric.Value, error) {
	return txs.position().totalPnl(price)
}

// PercentPnl returns TotalPnl relative to TotalCost, NA if the cost is zero.
func (txs Transactions) PercentPnl(price metric.Value) (metric.Value, error) {
	p := txs.position()
	pnl, err := p.totalPnl(price)
	if err != nil {
		return metric.NA, err
	}
	return pnl.Div(metric.Of(p.cost)), nil
}

// filter returns the transactions for which keep returns true.
func (txs Transactions) filter(keep func(Transaction) bool) Transactions {
	var out Transactions
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Purchases returns the purchase transactions.
func (txs Transactions) Purchases() Transactions {
	return txs.filter(func(t Transaction) bool { return t.Type == Purchase })
}

// Sales returns the sale transactions.
func (txs Transactions) Sales() Transactions {
	return txs.filter(func(t Transaction) bool { return t.Type == Sale })
}

// AsOf returns the transactions dated on or before day.
func (txs Transactions) AsOf(day date.Date) Transactions {
	return txs.filter(func(t Transaction) bool { return !t.Date.After(day) })
}

// Sorted returns a copy of the transactions in chronological order.
// Transactions on the same day keep their insertion order.
func (txs Transactions) Sorted() Transactions {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	return sorted
}

// FirstDate returns the date of the earliest transaction, false if there is none.
func (txs Transactions) FirstDate() (date.Date, bool) {
	if len(txs) == 0 {
		return date.Date{}, false
	}
	first := txs[0].Date
	for _, t := range txs[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
	}
	return first, true
}

// AggregatedByDate returns the transactions of type typ merged by day, in
// chronological order. Quantities are summed and the price is the quantity
// weighted average price of the day.
func (txs Transactions) AggregatedByDate(typ TransactionType) Transactions {
	var out Transactions
	for _, t := range txs.Sorted() {
		if t.Type != typ {
			continue
		}
		last := len(out) - 1
		if last < 0 || out[last].Date != t.Date {
			out = append(out, t)
			continue
		}
		amount := out[last].Amount().Add(t.Amount())
		out[last].Quantity += t.Quantity
		out[last].Price = amount.Div(decimal.NewFromInt(int64(out[last].Quantity)))
	}
	return out
}

// Validate checks every transaction, and that the quantity held at the end of
// each day never goes negative.
func (txs Transactions) Validate() error {
	for i, t := range txs {
		if reason := t.check(); reason != "" {
			return &InvalidTransactionError{Index: i, Transaction: t, Reason: reason}
		}
	}
	var p position
	sorted := txs.Sorted()
	for i, t := range sorted {
		p.add(t)
		if i+1 < len(sorted) && sorted[i+1].Date == t.Date {
			continue
		}
		if _, err := p.quantity(); err != nil {
			return &NegativeQuantityError{On: t.Date, Purchased: p.purchased, Sold: p.sold}
		}
	}
	return nil
}
