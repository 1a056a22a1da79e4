// Package tcgportfolio computes the valuation and performance of a portfolio
// of trading-card-game sealed products.
//
// A Portfolio owns Holdings, one per product. A Holding is defined by its
// purchase and sale Transactions, every figure (quantity, cost, revenue,
// realized and unrealized profit and loss) is derived on demand from them.
//
// Combined with the market price series of the products, holdings are valued
// day by day over a date.Range:
//
//	series, err := tcgportfolio.ComputeHoldingSeries(holding, prices, r, date.FillPolicy{})
//
// Figures that cannot be computed (the average cost of a holding without
// purchases, the market value on a day without known price) are metric.NA,
// never zero. Inconsistent data (selling more than was purchased) is reported
// as an error wrapping ErrInvariant.
//
// All computations are pure: they never log, never perform I/O and can be
// called concurrently.
package tcgportfolio
