package tcgportfolio

import (
	"fmt"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
)

// HoldingSeries are the daily performance series of a holding. Every series
// holds exactly one point per day of the requested range.
type HoldingSeries struct {
	MarketValue []date.Point `json:"marketValue"`
	Cost        []date.Point `json:"cost"`
	Pnl         []date.Point `json:"pnl"`      // cumulative profit and loss
	DailyPnl    []date.Point `json:"dailyPnl"` // day over day change of Pnl
	NetFlow     []date.Point `json:"netFlow"`  // purchase cost minus sale revenue of the day
	Quantity    []date.Point `json:"quantity"` // units held at the end of the day
}

// valuation is the series form of HoldingSeries.
type valuation struct {
	marketValue, cost, pnl, netFlow date.Series
	quantity                        date.Series
}

func (v valuation) holdingSeries() HoldingSeries {
	return HoldingSeries{
		MarketValue: v.marketValue.Points(),
		Cost:        v.cost.Points(),
		Pnl:         v.pnl.Points(),
		DailyPnl:    v.pnl.Diff().Points(),
		NetFlow:     v.netFlow.Points(),
		Quantity:    v.quantity.Points(),
	}
}

// ComputeHoldingSeries values the holding on every day of r.
//
// Each day only considers the transactions dated on or before it, valued at
// the price of prices densified over r with fill. Before the first
// transaction every value is NA. On a day without known price, the market
// value and the pnl are NA unless nothing is held.
//
// It fails with an error wrapping a *NegativeQuantityError if, at the end of
// any day up to r.To, more units were sold than purchased. Days before r are
// checked too.
func ComputeHoldingSeries(h Holding, prices date.Series, r date.Range, fill date.FillPolicy) (HoldingSeries, error) {
	v, err := value(h, prices, r, fill)
	if err != nil {
		return HoldingSeries{}, err
	}
	return v.holdingSeries(), nil
}

func value(h Holding, prices date.Series, r date.Range, fill date.FillPolicy) (valuation, error) {
	price := prices.Densify(r, fill)
	txs := h.Transactions.Sorted()

	var (
		mv, cost, pnl, flow []date.Point
		held                []date.Point
		pos                 position
		started             bool
	)
	for day, dayPrice := range price.Values() {
		dayFlow := metric.Zero
		for len(txs) > 0 && !txs[0].Date.After(day) {
			t := txs[0]
			pos.add(t)
			txs = txs[1:]
			started = true
			if t.Date != day {
				// before the range, checked at the end of each transaction day.
				if len(txs) == 0 || txs[0].Date != t.Date {
					if _, err := pos.quantity(); err != nil {
						return valuation{}, negativeQuantity(h, t.Date, pos)
					}
				}
				continue
			}
			switch t.Type {
			case Purchase:
				dayFlow = dayFlow.Add(metric.Of(t.Amount()))
			case Sale:
				dayFlow = dayFlow.Sub(metric.Of(t.Amount()))
			}
		}
		if !started {
			mv = append(mv, date.Point{On: day, Value: metric.NA})
			cost = append(cost, date.Point{On: day, Value: metric.NA})
			pnl = append(pnl, date.Point{On: day, Value: metric.NA})
			flow = append(flow, date.Point{On: day, Value: metric.NA})
			held = append(held, date.Point{On: day, Value: metric.NA})
			continue
		}

		q, err := pos.quantity()
		if err != nil {
			return valuation{}, negativeQuantity(h, day, pos)
		}
		dayPnl := metric.NA
		if q == 0 || !dayPrice.IsNA() {
			// we checked the quantity above.
			dayPnl, _ = pos.totalPnl(dayPrice)
		}
		mv = append(mv, date.Point{On: day, Value: marketValue(q, dayPrice)})
		cost = append(cost, date.Point{On: day, Value: metric.Of(pos.cost)})
		pnl = append(pnl, date.Point{On: day, Value: dayPnl})
		flow = append(flow, date.Point{On: day, Value: dayFlow})
		held = append(held, date.Point{On: day, Value: metric.Of(q)})
	}

	// points are built from distinct days, FromPoints cannot fail.
	return valuation{
		marketValue: date.MustFromPoints(mv...),
		cost:        date.MustFromPoints(cost...),
		pnl:         date.MustFromPoints(pnl...),
		netFlow:     date.MustFromPoints(flow...),
		quantity:    date.MustFromPoints(held...),
	}, nil
}

func negativeQuantity(h Holding, on date.Date, pos position) error {
	return fmt.Errorf("cannot value product %d on %s: %w", h.ProductID(), on,
		&NegativeQuantityError{On: on, Purchased: pos.purchased, Sold: pos.sold})
}
