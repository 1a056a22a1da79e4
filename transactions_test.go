package tcgportfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

func buy(on date.Date, quantity int, price float64) Transaction {
	return NewPurchase(on, quantity, decimal.NewFromFloat(price))
}

func sell(on date.Date, quantity int, price float64) Transaction {
	return NewSale(on, quantity, decimal.NewFromFloat(price))
}

func day(m time.Month, d int) date.Date { return date.New(2025, m, d) }

// simpleHolding bought 10 units at 5 and sold 4 at 8.
func simpleHolding() Transactions {
	return Transactions{
		buy(day(time.January, 1), 10, 5),
		sell(day(time.February, 1), 4, 8),
	}
}

// must panics on error, for figures known to be computable.
func must(v metric.Value, err error) metric.Value {
	if err != nil {
		panic(err)
	}
	return v
}

func TestTransactions_SimpleHolding(t *testing.T) {
	txs := simpleHolding()
	price := metric.Of(6)

	if got, want := txs.PurchaseQuantity(), 10; got != want {
		t.Errorf("PurchaseQuantity() = %d, want %d", got, want)
	}
	if got, want := txs.SaleQuantity(), 4; got != want {
		t.Errorf("SaleQuantity() = %d, want %d", got, want)
	}
	q, err := txs.Quantity()
	if err != nil || q != 6 {
		t.Errorf("Quantity() = %d, %v want 6", q, err)
	}
	if got, want := txs.TotalCost(), decimal.NewFromInt(50); !got.Equal(want) {
		t.Errorf("TotalCost() = %v, want %v", got, want)
	}
	if got, want := txs.TotalRevenue(), decimal.NewFromInt(32); !got.Equal(want) {
		t.Errorf("TotalRevenue() = %v, want %v", got, want)
	}

	testCases := []struct {
		name string
		got  metric.Value
		want metric.Value
	}{
		{"AverageCost", txs.AverageCost(), metric.Of(5)},
		{"AverageRevenue", txs.AverageRevenue(), metric.Of(8)},
		{"RealizedPnl", txs.RealizedPnl(), metric.Of(12)},
		{"UnrealizedPnl", must(txs.UnrealizedPnl(price)), metric.Of(6)},
		{"TotalPnl", must(txs.TotalPnl(price)), metric.Of(18)},
		{"PercentPnl", must(txs.PercentPnl(price)), metric.Of(0.36)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.Equal(tc.want) {
				t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
			}
		})
	}
}

func TestTransactions_MixedPurchasePrices(t *testing.T) {
	// the average cost 3.02/3 has no exact decimal form, pnl figures stay exact.
	txs := Transactions{
		buy(day(time.January, 1), 1, 1),
		buy(day(time.January, 1), 2, 1.01),
		sell(day(time.January, 2), 2, 2),
	}
	testCases := []struct {
		name string
		got  metric.Value
		want string
	}{
		{"RealizedPnl", txs.RealizedPnl(), "1.9866666666666667"},
		{"UnrealizedPnl", must(txs.UnrealizedPnl(metric.Of(2))), "0.9933333333333333"},
		{"TotalPnl", must(txs.TotalPnl(metric.Of(2))), "2.98"},
	}
	for _, tc := range testCases {
		if got := tc.got.String(); got != tc.want {
			t.Errorf("%s = %s, want %s", tc.name, got, tc.want)
		}
	}

	all := append(txs, sell(day(time.January, 3), 1, 2))
	if got, want := all.RealizedPnl(), metric.Of(2.98); !got.Equal(want) {
		t.Errorf("RealizedPnl() after selling out = %v, want %v", got, want)
	}
}

func TestTransactions_Empty(t *testing.T) {
	var txs Transactions
	price := metric.Of(6)

	q, err := txs.Quantity()
	if err != nil || q != 0 {
		t.Errorf("Quantity() = %d, %v want 0", q, err)
	}
	if txs.PurchaseQuantity() != 0 || txs.SaleQuantity() != 0 {
		t.Errorf("quantities of an empty holding should be 0")
	}
	if !txs.TotalCost().IsZero() || !txs.TotalRevenue().IsZero() {
		t.Errorf("TotalCost() = %v, TotalRevenue() = %v, want 0", txs.TotalCost(), txs.TotalRevenue())
	}

	testCases := []struct {
		name string
		got  metric.Value
	}{
		{"AverageCost", txs.AverageCost()},
		{"AverageRevenue", txs.AverageRevenue()},
		{"RealizedPnl", txs.RealizedPnl()},
		{"UnrealizedPnl", must(txs.UnrealizedPnl(price))},
		{"TotalPnl", must(txs.TotalPnl(price))},
		{"PercentPnl", must(txs.PercentPnl(price))},
	}
	for _, tc := range testCases {
		if !tc.got.IsNA() {
			t.Errorf("%s = %v, want n/a", tc.name, tc.got)
		}
	}
}

func TestTransactions_NegativeQuantity(t *testing.T) {
	txs := Transactions{
		buy(day(time.January, 1), 2, 5),
		sell(day(time.January, 2), 3, 6),
	}
	_, err := txs.Quantity()
	var neg *NegativeQuantityError
	if !errors.As(err, &neg) {
		t.Fatalf("Quantity() error = %v, want *NegativeQuantityError", err)
	}
	if neg.Purchased != 2 || neg.Sold != 3 {
		t.Errorf("NegativeQuantityError = %+v", neg)
	}
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("errors.Is(%v, ErrInvariant) = false", err)
	}
	if _, err := txs.TotalPnl(metric.Of(1)); !errors.Is(err, ErrInvariant) {
		t.Errorf("TotalPnl() error = %v, want ErrInvariant", err)
	}
	if err := txs.Validate(); !errors.As(err, &neg) || neg.On != day(time.January, 2) {
		t.Errorf("Validate() error = %v, want negative quantity on 2025-01-02", err)
	}
}

func TestTransactions_ZeroIsDefined(t *testing.T) {
	// bought and sold at the same price: every pnl is a defined zero.
	txs := Transactions{
		buy(day(time.January, 1), 2, 5),
		sell(day(time.January, 2), 2, 5),
	}
	if got := txs.RealizedPnl(); !got.IsZero() {
		t.Errorf("RealizedPnl() = %v, want 0", got)
	}
	if got := must(txs.TotalPnl(metric.NA)); !got.IsZero() {
		t.Errorf("TotalPnl() = %v, want 0", got)
	}
	if got := must(txs.PercentPnl(metric.NA)); !got.IsZero() {
		t.Errorf("PercentPnl() = %v, want 0", got)
	}
	if got := must(txs.UnrealizedPnl(metric.Of(9))); !got.IsNA() {
		t.Errorf("UnrealizedPnl() = %v, want n/a when nothing is held", got)
	}
}

func TestTransactions_NonNegative(t *testing.T) {
	lists := []Transactions{
		nil,
		simpleHolding(),
		{sell(day(time.March, 1), 1, 3)},
		{buy(day(time.March, 1), 1, 0.01), buy(day(time.March, 1), 7, 120)},
	}
	for i, txs := range lists {
		if txs.PurchaseQuantity() < 0 || txs.SaleQuantity() < 0 || txs.TotalCost().IsNegative() || txs.TotalRevenue().IsNegative() {
			t.Errorf("list #%d has negative aggregates", i)
		}
	}
}

func TestTransactions_AggregatedByDate(t *testing.T) {
	txs := Transactions{
		buy(day(time.January, 3), 1, 10),
		buy(day(time.January, 1), 1, 4),
		sell(day(time.January, 1), 1, 8),
		buy(day(time.January, 1), 3, 8),
	}
	got := txs.AggregatedByDate(Purchase)
	want := Transactions{
		buy(day(time.January, 1), 4, 7),
		buy(day(time.January, 3), 1, 10),
	}
	if len(got) != len(want) {
		t.Fatalf("AggregatedByDate() = %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("AggregatedByDate()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !txs[1].Price.Equal(decimal.NewFromInt(4)) {
		t.Errorf("AggregatedByDate() modified its input")
	}
}

func TestTransactions_Filters(t *testing.T) {
	txs := simpleHolding()
	if got := len(txs.Purchases()); got != 1 {
		t.Errorf("len(Purchases()) = %d, want 1", got)
	}
	if got := len(txs.Sales()); got != 1 {
		t.Errorf("len(Sales()) = %d, want 1", got)
	}
	if got := txs.AsOf(day(time.January, 31)); len(got) != 1 || got[0].Type != Purchase {
		t.Errorf("AsOf(jan 31) = %v", got)
	}
	if first, ok := txs.FirstDate(); !ok || first != day(time.January, 1) {
		t.Errorf("FirstDate() = %v, %v", first, ok)
	}
}

func TestTransactions_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{"valid", buy(day(time.May, 1), 1, 0.01), false},
		{"price too low", buy(day(time.May, 1), 1, 0.001), true},
		{"zero quantity", buy(day(time.May, 1), 0, 3), true},
		{"no date", buy(date.Date{}, 1, 3), true},
		{"unknown type", Transaction{Type: "gift", Date: day(time.May, 1), Price: decimal.NewFromInt(1), Quantity: 1}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Transactions{tc.tx}.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			var invalid *InvalidTransactionError
			if tc.wantErr && (!errors.As(err, &invalid) || !errors.Is(err, ErrInvariant)) {
				t.Errorf("Validate() error = %v, want *InvalidTransactionError", err)
			}
		})
	}
}

func TestTransactions_Validate_SameDaySaleFirst(t *testing.T) {
	txs := Transactions{
		sell(day(time.June, 1), 1, 9),
		buy(day(time.June, 1), 1, 5),
	}
	if err := txs.Validate(); err != nil {
		t.Errorf("Validate() error = %v, same day purchase covers the sale", err)
	}
}

func TestComputeHoldingAggregates(t *testing.T) {
	got, err := ComputeHoldingAggregates(simpleHolding())
	if err != nil {
		t.Fatalf("ComputeHoldingAggregates() error = %v", err)
	}
	if got.Quantity != 6 || !got.RealizedPnl.Equal(metric.Of(12)) || !got.AverageCost.Equal(metric.Of(5)) {
		t.Errorf("ComputeHoldingAggregates() = %+v", got)
	}

	pnl, err := ComputeHoldingPnl(simpleHolding(), metric.Of(6))
	if err != nil {
		t.Fatalf("ComputeHoldingPnl() error = %v", err)
	}
	if !pnl.MarketValue.Equal(metric.Of(36)) || !pnl.UnrealizedPnl.Equal(metric.Of(6)) ||
		!pnl.TotalPnl.Equal(metric.Of(18)) || !pnl.PercentPnl.Equal(metric.Of(0.36)) {
		t.Errorf("ComputeHoldingPnl() = %+v", pnl)
	}

	if _, err := ComputeHoldingAggregates(Transactions{sell(day(time.January, 1), 1, 1)}); !errors.Is(err, ErrInvariant) {
		t.Errorf("ComputeHoldingAggregates() error = %v, want ErrInvariant", err)
	}
}
