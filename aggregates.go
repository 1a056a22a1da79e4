package tcgportfolio

import (
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

// HoldingAggregates are the price independent figures of a holding.
type HoldingAggregates struct {
	PurchaseQuantity int             `json:"purchaseQuantity"`
	SaleQuantity     int             `json:"saleQuantity"`
	Quantity         int             `json:"quantity"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	AverageCost      metric.Value    `json:"averageCost"`
	AverageRevenue   metric.Value    `json:"averageRevenue"`
	RealizedPnl      metric.Value    `json:"realizedPnl"`
}

// ComputeHoldingAggregates computes the aggregates of a list of transactions.
// It fails with a *NegativeQuantityError if more units were sold than purchased.
func ComputeHoldingAggregates(txs Transactions) (HoldingAggregates, error) {
	p := txs.position()
	q, err := p.quantity()
	if err != nil {
		return HoldingAggregates{}, err
	}
	return HoldingAggregates{
		PurchaseQuantity: p.purchased,
		SaleQuantity:     p.sold,
		Quantity:         q,
		TotalCost:        p.cost,
		TotalRevenue:     p.revenue,
		AverageCost:      p.averageCost(),
		AverageRevenue:   p.averageRevenue(),
		RealizedPnl:      p.realizedPnl(),
	}, nil
}

// HoldingPnl are the figures of a holding that depend on the market price.
type HoldingPnl struct {
	MarketValue   metric.Value `json:"marketValue"`
	UnrealizedPnl metric.Value `json:"unrealizedPnl"`
	TotalPnl      metric.Value `json:"totalPnl"`
	PercentPnl    metric.Value `json:"percentPnl"`
}

// ComputeHoldingPnl computes the profit and loss of a list of transactions at
// a given market price. The price can be NA when unknown.
func ComputeHoldingPnl(txs Transactions, price metric.Value) (HoldingPnl, error) {
	p := txs.position()
	q, err := p.quantity()
	if err != nil {
		return HoldingPnl{}, err
	}
	unrealized, err := p.unrealizedPnl(price)
	if err != nil {
		return HoldingPnl{}, err
	}
	total, err := p.totalPnl(price)
	if err != nil {
		return HoldingPnl{}, err
	}
	return HoldingPnl{
		MarketValue:   marketValue(q, price),
		UnrealizedPnl: unrealized,
		TotalPnl:      total,
		PercentPnl:    total.Div(metric.Of(p.cost)),
	}, nil
}

// marketValue returns quantity times price. Nothing held is worth zero even
// without known price.
func marketValue(quantity int, price metric.Value) metric.Value {
	if quantity == 0 {
		return metric.Zero
	}
	return metric.Of(quantity).Mul(price)
}
