package tcgportfolio

import (
	"fmt"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PortfolioAggregates are the figures of a set of holdings at given prices.
//
// Each figure is the sum of the defined figures of the holdings, NA if none
// of them is defined.
type PortfolioAggregates struct {
	TotalCost     metric.Value `json:"totalCost"`
	TotalRevenue  metric.Value `json:"totalRevenue"`
	MarketValue   metric.Value `json:"marketValue"`
	RealizedPnl   metric.Value `json:"realizedPnl"`
	UnrealizedPnl metric.Value `json:"unrealizedPnl"`
	TotalPnl      metric.Value `json:"totalPnl"`
	PercentPnl    metric.Value `json:"percentPnl"` // TotalPnl / TotalCost
}

// contribution returns the figures of a single holding.
//
// The cost is NA without purchases, the revenue NA without sales, and the
// market value NA without transactions, or without price while units are held.
func contribution(h Holding, prices map[ProductID]decimal.Decimal) (PortfolioAggregates, error) {
	if len(h.Transactions) == 0 {
		return PortfolioAggregates{}, nil
	}
	p := h.Transactions.position()
	q, err := p.quantity()
	if err != nil {
		return PortfolioAggregates{}, fmt.Errorf("product %d: %w", h.ProductID(), err)
	}
	price := metric.NA
	if known, ok := prices[h.ProductID()]; ok {
		price = metric.Of(known)
	}

	var c PortfolioAggregates
	if p.purchased > 0 {
		c.TotalCost = metric.Of(p.cost)
	}
	if p.sold > 0 {
		c.TotalRevenue = metric.Of(p.revenue)
	}
	if q == 0 || !price.IsNA() {
		c.MarketValue = marketValue(q, price)
	}
	c.RealizedPnl = p.realizedPnl()
	// the quantity is known to be valid.
	c.UnrealizedPnl, _ = p.unrealizedPnl(price)
	c.TotalPnl, _ = p.totalPnl(price)
	return c, nil
}

// ComputePortfolioAggregates sums the figures of the holdings valued at
// prices. Holdings without price have no unrealized pnl, and no market value
// unless they were sold out.
func ComputePortfolioAggregates(holdings []Holding, prices map[ProductID]decimal.Decimal) (PortfolioAggregates, error) {
	var total PortfolioAggregates
	for _, h := range holdings {
		c, err := contribution(h, prices)
		if err != nil {
			return PortfolioAggregates{}, err
		}
		total.TotalCost = metric.Sum(total.TotalCost, c.TotalCost)
		total.TotalRevenue = metric.Sum(total.TotalRevenue, c.TotalRevenue)
		total.MarketValue = metric.Sum(total.MarketValue, c.MarketValue)
		total.RealizedPnl = metric.Sum(total.RealizedPnl, c.RealizedPnl)
		total.UnrealizedPnl = metric.Sum(total.UnrealizedPnl, c.UnrealizedPnl)
		total.TotalPnl = metric.Sum(total.TotalPnl, c.TotalPnl)
	}
	total.PercentPnl = total.TotalPnl.Div(total.TotalCost)
	return total, nil
}

// PortfolioSeries are the daily performance series of a set of holdings.
type PortfolioSeries struct {
	MarketValue []date.Point `json:"marketValue"`
	Cost        []date.Point `json:"cost"`
	Pnl         []date.Point `json:"pnl"`
	DailyPnl    []date.Point `json:"dailyPnl"`
	NetFlow     []date.Point `json:"netFlow"`
	PercentPnl  []date.Point `json:"percentPnl"` // Pnl / Cost
}

// ComputePortfolioSeries values every holding over r and sums them day by day.
//
// A holding contributes to a day once it has a transaction on or before that
// day, its NA values then count as zero. A day where no holding exists yet is
// NA. Holdings without price series are valued with an empty one.
//
// Holdings are valued concurrently.
func ComputePortfolioSeries(holdings []Holding, priceSeries map[ProductID]date.Series, r date.Range, fill date.FillPolicy) (PortfolioSeries, error) {
	valuations := make([]valuation, len(holdings))
	var g errgroup.Group
	for i, h := range holdings {
		prices := priceSeries[h.ProductID()]
		g.Go(func() error {
			v, err := value(h, prices, r, fill)
			if err != nil {
				return err
			}
			valuations[i] = v.contributions(h)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PortfolioSeries{}, err
	}

	var mv, cost, pnl, flow []date.Series
	for _, v := range valuations {
		mv = append(mv, v.marketValue)
		cost = append(cost, v.cost)
		pnl = append(pnl, v.pnl)
		flow = append(flow, v.netFlow)
	}
	total := valuation{
		marketValue: date.Sum(mv...).Densify(r, naFill),
		cost:        date.Sum(cost...).Densify(r, naFill),
		pnl:         date.Sum(pnl...).Densify(r, naFill),
		netFlow:     date.Sum(flow...).Densify(r, naFill),
	}
	hs := total.holdingSeries()
	return PortfolioSeries{
		MarketValue: hs.MarketValue,
		Cost:        hs.Cost,
		Pnl:         hs.Pnl,
		DailyPnl:    hs.DailyPnl,
		NetFlow:     hs.NetFlow,
		PercentPnl:  percent(total.pnl, total.cost).Points(),
	}, nil
}

// naFill fills the days missing from a sum with NA.
var naFill = date.FillPolicy{Method: date.FillValue}

// contributions returns v where NA values after the first transaction of h
// are zero.
func (v valuation) contributions(h Holding) valuation {
	orZero := func(day date.Date, x metric.Value) metric.Value {
		if x.IsNA() && h.existsOn(day) {
			return metric.Zero
		}
		return x
	}
	return valuation{
		marketValue: v.marketValue.Map(orZero),
		cost:        v.cost.Map(orZero),
		pnl:         v.pnl.Map(orZero),
		netFlow:     v.netFlow.Map(orZero),
		quantity:    v.quantity,
	}
}

// percent returns num / den day by day.
func percent(num, den date.Series) date.Series {
	return num.Map(func(day date.Date, x metric.Value) metric.Value {
		d, _ := den.Get(day)
		return x.Div(d)
	})
}

// HoldingWeight is the share of a holding in the market value of a portfolio.
type HoldingWeight struct {
	ProductID   ProductID    `json:"productId"`
	MarketValue metric.Value `json:"marketValue"`
	Weight      float64      `json:"weight"`
	PercentPnl  metric.Value `json:"percentPnl"`
}

// Composition describes how the market value of a portfolio is split among its holdings.
type Composition struct {
	Weights []HoldingWeight `json:"weights"`
	// Concentration is the Herfindahl index of the weights, 1 when a single
	// product makes the whole value, 1/n when n products weigh the same.
	Concentration metric.Value `json:"concentration"`
	// WeightedPercentPnl is the average of the holdings PercentPnl weighted
	// by their market value.
	WeightedPercentPnl metric.Value `json:"weightedPercentPnl"`
}

// ComputeComposition computes the weight of each holding with a positive
// market value at prices.
func ComputeComposition(holdings []Holding, prices map[ProductID]decimal.Decimal) (Composition, error) {
	var (
		c       Composition
		values  []float64
		returns []float64
		rw      []float64 // weights of the holdings with a defined return
	)
	for _, h := range holdings {
		price, ok := prices[h.ProductID()]
		if !ok || len(h.Transactions) == 0 {
			continue
		}
		pnl, err := ComputeHoldingPnl(h.Transactions, metric.Of(price))
		if err != nil {
			return Composition{}, fmt.Errorf("product %d: %w", h.ProductID(), err)
		}
		mv, _ := pnl.MarketValue.Float64()
		if mv <= 0 {
			continue
		}
		c.Weights = append(c.Weights, HoldingWeight{ProductID: h.ProductID(), MarketValue: pnl.MarketValue, PercentPnl: pnl.PercentPnl})
		values = append(values, mv)
	}
	if len(values) == 0 {
		return c, nil
	}

	weights := make([]float64, len(values))
	copy(weights, values)
	floats.Scale(1/floats.Sum(values), weights)
	for i, w := range weights {
		c.Weights[i].Weight = w
		if ret, ok := c.Weights[i].PercentPnl.Float64(); ok {
			returns = append(returns, ret)
			rw = append(rw, w)
		}
	}
	c.Concentration = metric.Of(floats.Dot(weights, weights))
	if len(returns) > 0 {
		c.WeightedPercentPnl = metric.Of(stat.Mean(returns, rw))
	}
	return c, nil
}
