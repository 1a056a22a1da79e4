package tcgportfolio

import (
	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

// lot represents a single purchase of units, used for cost of goods sold calculations.
type lot struct {
	Date     date.Date
	Quantity int
	Cost     decimal.Decimal // Total cost of the lot (quantity * price)
}

type lots []lot

func (l lots) quantity() int {
	q := 0
	for _, current := range l {
		q += current.Quantity
	}
	return q
}

// fifoCostOfSelling calculates the cost of selling a quantity of units using FIFO.
func (l lots) fifoCostOfSelling(quantityToSell int) decimal.Decimal {
	var cost decimal.Decimal
	for _, current := range l {
		if current.Quantity > quantityToSell {
			// Partial sale from this lot
			portion := current.Cost.Mul(decimal.NewFromInt(int64(quantityToSell))).Div(decimal.NewFromInt(int64(current.Quantity)))
			return cost.Add(portion)
		}
		cost = cost.Add(current.Cost)
		quantityToSell -= current.Quantity
	}
	return cost
}

// sell reduces the available lots by a given quantity to sell using the FIFO method.
func (l lots) sell(quantityToSell int) lots {
	var remaining lots
	for _, current := range l {
		if quantityToSell == 0 {
			remaining = append(remaining, current)
			continue
		}
		if current.Quantity > quantityToSell {
			portion := current.Cost.Mul(decimal.NewFromInt(int64(quantityToSell))).Div(decimal.NewFromInt(int64(current.Quantity)))
			remaining = append(remaining, lot{
				Date:     current.Date,
				Quantity: current.Quantity - quantityToSell,
				Cost:     current.Cost.Sub(portion),
			})
			quantityToSell = 0
			continue
		}
		quantityToSell -= current.Quantity
	}
	return remaining
}

// CostOfGoodsSold returns, for each day with sales, the purchase cost of the
// units sold that day, matching sales against the oldest purchases first.
//
// It is informational: RealizedPnl always uses the average cost.
func (txs Transactions) CostOfGoodsSold() (date.Series, error) {
	purchases := txs.AggregatedByDate(Purchase)
	var (
		held   lots
		points []date.Point
	)
	for _, sale := range txs.AggregatedByDate(Sale) {
		for len(purchases) > 0 && !purchases[0].Date.After(sale.Date) {
			p := purchases[0]
			held = append(held, lot{Date: p.Date, Quantity: p.Quantity, Cost: p.Amount()})
			purchases = purchases[1:]
		}
		if available := held.quantity(); available < sale.Quantity {
			return date.Series{}, &NegativeQuantityError{On: sale.Date, Purchased: available, Sold: sale.Quantity}
		}
		points = append(points, date.Point{On: sale.Date, Value: metric.Of(held.fifoCostOfSelling(sale.Quantity))})
		held = held.sell(sale.Quantity)
	}
	return date.FromPoints(points)
}
