package tcgportfolio

import (
	"testing"
	"time"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

func points(from date.Date, values ...metric.Value) []date.Point {
	var pts []date.Point
	for i, v := range values {
		pts = append(pts, date.Point{On: from.Add(i), Value: v})
	}
	return pts
}

func TestTimeWeightedReturn(t *testing.T) {
	start := day(time.March, 1)
	values := points(start, na, metric.Of(100), metric.Of(110), metric.Of(231), metric.Zero)
	flows := points(start, na, metric.Of(100), metric.Zero, metric.Of(110), metric.Of(-231))

	// 110/100 x 231/220 x 231/231
	if got, want := TimeWeightedReturn(values, flows), metric.Of(0.155); !got.Equal(want) {
		t.Errorf("TimeWeightedReturn() = %v, want %v", got, want)
	}
	if got := TimeWeightedReturn(points(start, na, na), nil); !got.IsNA() {
		t.Errorf("TimeWeightedReturn(n/a) = %v, want n/a", got)
	}
}

func TestAnnualize(t *testing.T) {
	r := date.NewRange(date.New(2020, time.January, 1), date.New(2020, time.January, 1).Add(730))
	if got, want := Annualize(metric.Of(0.21), r).Round(6), metric.Of(0.1); !got.Equal(want) {
		t.Errorf("Annualize(21%%, 2y) = %v, want %v", got, want)
	}
	if got := Annualize(metric.Of(0.21), date.NewRange(r.From, r.From)); !got.IsNA() {
		t.Errorf("Annualize() over a single day = %v, want n/a", got)
	}
	if got := Annualize(metric.NA, r); !got.IsNA() {
		t.Errorf("Annualize(n/a) = %v, want n/a", got)
	}
}

func TestHoldingTimeWeightedReturn(t *testing.T) {
	product := &Product{ID: 42, Name: "Booster Box", ReleaseDate: day(time.January, 1), MSRP: decimal.NewFromInt(100)}
	h, err := NewReleaseHolding(product)
	if err != nil {
		t.Fatalf("NewReleaseHolding() error = %v", err)
	}
	if h.ProductID() != 42 || h.Details() != product {
		t.Errorf("NewReleaseHolding() = %+v", h)
	}
	prices := date.MustFromPoints(
		date.Point{On: day(time.January, 1), Value: metric.Of(100)},
		date.Point{On: day(time.January, 3), Value: metric.Of(125)},
	)
	r := date.NewRange(day(time.January, 1), day(time.January, 5))
	got, err := HoldingTimeWeightedReturn(h, prices, r, date.FillPolicy{}, false)
	if err != nil {
		t.Fatalf("HoldingTimeWeightedReturn() error = %v", err)
	}
	if want := metric.Of(0.25); !got.Equal(want) {
		t.Errorf("HoldingTimeWeightedReturn() = %v, want %v", got, want)
	}

	if _, err := NewReleaseHolding(&Product{ID: 7}); err == nil {
		t.Errorf("NewReleaseHolding() without release date should fail")
	}
}
