package tcgportfolio

import (
	"fmt"
	"math"

	"github.com/etnz/tcgportfolio/date"
	"github.com/etnz/tcgportfolio/metric"
	"github.com/shopspring/decimal"
)

// TimeWeightedReturn chain links the daily holding period returns of a value
// series given the external flows of each day.
//
// Positive flows (purchases) are invested at the start of the day, negative
// flows (sales) are withdrawn at its end. An NA value at the start of a day
// counts as nothing invested. Days with an NA end value, or with nothing
// invested, are skipped. It returns NA if no day can be linked.
func TimeWeightedReturn(values, flows []date.Point) metric.Value {
	flowOn := make(map[date.Date]decimal.Decimal, len(flows))
	for _, f := range flows {
		flowOn[f.On] = f.Value.OrZero()
	}

	growth, linked := decimal.NewFromInt(1), false
	start := decimal.Zero
	for _, p := range values {
		end, ok := p.Value.Get()
		if !ok {
			start = decimal.Zero
			continue
		}
		invested, withdrawn := start, end
		if flow := flowOn[p.On]; flow.IsPositive() {
			invested = invested.Add(flow)
		} else {
			withdrawn = withdrawn.Sub(flow)
		}
		start = end
		if invested.IsZero() {
			continue
		}
		growth = growth.Mul(withdrawn.Div(invested))
		linked = true
	}
	if !linked {
		return metric.NA
	}
	return metric.Of(growth.Sub(decimal.NewFromInt(1)))
}

// Annualize converts a return over r into its yearly equivalent using
// (1+ret)^(365/days)-1. It is NA for NA returns or ranges shorter than a day.
func Annualize(ret metric.Value, r date.Range) metric.Value {
	f, ok := ret.Float64()
	days := date.DaysBetween(r.From, r.To)
	if !ok || days <= 0 {
		return metric.NA
	}
	annual := math.Pow(1+f, 365/float64(days)) - 1
	if math.IsNaN(annual) || math.IsInf(annual, 0) {
		return metric.NA
	}
	return metric.Of(annual)
}

// HoldingTimeWeightedReturn values the holding over r and returns its time
// weighted return, annualized if requested.
func HoldingTimeWeightedReturn(h Holding, prices date.Series, r date.Range, fill date.FillPolicy, annualized bool) (metric.Value, error) {
	v, err := value(h, prices, r, fill)
	if err != nil {
		return metric.NA, fmt.Errorf("time weighted return: %w", err)
	}
	ret := TimeWeightedReturn(v.marketValue.Points(), v.netFlow.Points())
	if annualized {
		return Annualize(ret, r), nil
	}
	return ret, nil
}
