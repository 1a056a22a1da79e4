package date

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/etnz/tcgportfolio/metric"
)

// Point is a value observed on a given day.
type Point struct {
	On    Date         `json:"date"`
	Value metric.Value `json:"value"`
}

// SortPoints sorts points in chronological order. Points on the same day keep
// their relative order.
func SortPoints(points []Point) {
	slices.SortStableFunc(points, func(a, b Point) int { return a.On.Compare(b.On) })
}

// DuplicateDateError is returned when a series is built from two points on the same day.
type DuplicateDateError struct {
	Date Date
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("duplicate observation on %s", e.Date)
}

// Series stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
//
// The zero value is an empty series. A Series is never modified once built,
// every operation returns a new one.
type Series struct {
	days   []Date
	values []metric.Value
}

// FromPoints builds a Series from unordered points.
// It fails with a *DuplicateDateError if two points share the same day.
func FromPoints(points []Point) (Series, error) {
	sorted := slices.Clone(points)
	SortPoints(sorted)
	s := Series{
		days:   make([]Date, 0, len(sorted)),
		values: make([]metric.Value, 0, len(sorted)),
	}
	for i, p := range sorted {
		if i > 0 && sorted[i-1].On == p.On {
			return Series{}, &DuplicateDateError{Date: p.On}
		}
		s.days = append(s.days, p.On)
		s.values = append(s.values, p.Value)
	}
	return s, nil
}

// MustFromPoints is like FromPoints but panics on error.
func MustFromPoints(points ...Point) Series {
	s, err := FromPoints(points)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// Len returns the number of observations in the series.
func (s Series) Len() int { return len(s.days) }

// Points returns a copy of the observations in chronological order.
func (s Series) Points() []Point {
	points := make([]Point, len(s.days))
	for i, on := range s.days {
		points[i] = Point{On: on, Value: s.values[i]}
	}
	return points
}

// Values returns an iterator over all date/value pairs in the series, in chronological order.
func (s Series) Values() iter.Seq2[Date, metric.Value] {
	return func(yield func(Date, metric.Value) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// First returns the earliest observation, false if the series is empty.
func (s Series) First() (Point, bool) {
	if len(s.days) == 0 {
		return Point{}, false
	}
	return Point{On: s.days[0], Value: s.values[0]}, true
}

// Last returns the latest observation, false if the series is empty.
func (s Series) Last() (Point, bool) {
	last := len(s.days) - 1
	if last < 0 {
		return Point{}, false
	}
	return Point{On: s.days[last], Value: s.values[last]}, true
}

// search returns the index where day is or would be inserted.
func (s Series) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(s.days, day, func(d, t Date) int { return d.Compare(t) })
}

// Get returns the value observed on 'day' and true, or NA and false.
func (s Series) Get(day Date) (metric.Value, bool) {
	if i, found := s.search(day); found {
		return s.values[i], true
	}
	return metric.NA, false
}

// ValueAsOf returns the last defined value observed on or before day.
// It returns NA and false if there is none.
func (s Series) ValueAsOf(day Date) (metric.Value, bool) {
	i, found := s.search(day)
	if found {
		i++
	}
	for i--; i >= 0; i-- {
		if !s.values[i].IsNA() {
			return s.values[i], true
		}
	}
	return metric.NA, false
}

// FillMethod selects how days without observation are filled.
type FillMethod int

const (
	// ForwardFill carries the last known value forward.
	ForwardFill FillMethod = iota
	// FillValue uses a constant.
	FillValue
)

func (m FillMethod) String() string {
	switch m {
	case ForwardFill:
		return "locf"
	case FillValue:
		return "value"
	default:
		return fmt.Sprintf("FillMethod(%d)", int(m))
	}
}

// ParseFillMethod parses "locf" (or "ffill") and "value".
func ParseFillMethod(s string) (FillMethod, error) {
	switch strings.ToLower(s) {
	case "locf", "ffill", "forward":
		return ForwardFill, nil
	case "value", "constant":
		return FillValue, nil
	default:
		return ForwardFill, fmt.Errorf("unknown fill method %q, want locf or value", s)
	}
}

// FillPolicy describes how Densify fills days without a defined observation.
//
// The zero value is a forward fill that leaves days before the first
// observation NA.
type FillPolicy struct {
	Method FillMethod
	// Value is the constant used by FillValue.
	Value metric.Value
	// Initial, when defined, is used for days before the first defined observation.
	Initial metric.Value
}

// Densify returns a series with exactly one value per day of r.
//
// Days with a defined observation keep it. Other days are filled according
// to fill. Forward fill uses observations before r.From too but never back
// fills from a later observation. NA observations count as missing.
func (s Series) Densify(r Range, fill FillPolicy) Series {
	n := r.Len()
	out := Series{
		days:   make([]Date, 0, n),
		values: make([]metric.Value, 0, n),
	}
	i, last, seen := 0, metric.NA, false
	for day := range r.Days() {
		exact := false
		for i < len(s.days) && !s.days[i].After(day) {
			if v := s.values[i]; !v.IsNA() {
				last, seen = v, true
				exact = s.days[i] == day
			}
			i++
		}

		var v metric.Value
		switch {
		case exact:
			v = last
		case !seen && !fill.Initial.IsNA():
			v = fill.Initial
		case fill.Method == FillValue:
			v = fill.Value
		case seen:
			v = last
		default:
			v = metric.NA
		}
		out.days = append(out.days, day)
		out.values = append(out.values, v)
	}
	return out
}

// TrimOrExtend restricts or pads the series to exactly [from, to].
//
// Padding after the last observation repeats the last known value, days before
// the first observation are NA.
func (s Series) TrimOrExtend(from, to Date) Series {
	return s.Densify(NewRange(from, to), FillPolicy{Method: ForwardFill})
}

// Accumulate returns the running sum of the series.
//
// Values are NA until the first defined value, NA values contribute nothing
// afterwards.
func (s Series) Accumulate() Series {
	out := Series{days: slices.Clone(s.days), values: make([]metric.Value, len(s.values))}
	total := metric.NA
	for i, v := range s.values {
		total = metric.Sum(total, v)
		out.values[i] = total
	}
	return out
}

// Diff returns the day over day differences of the series.
//
// The first defined value is kept as is, and NA values stay NA, so that
// Accumulate(Diff(s)) restores every defined value of s.
func (s Series) Diff() Series {
	out := Series{days: slices.Clone(s.days), values: make([]metric.Value, len(s.values))}
	previous := metric.Zero
	for i, v := range s.values {
		if v.IsNA() {
			out.values[i] = metric.NA
			continue
		}
		out.values[i] = v.Sub(previous)
		previous = v
	}
	return out
}

// Map returns a series with f applied to every observation.
func (s Series) Map(f func(Date, metric.Value) metric.Value) Series {
	out := Series{days: slices.Clone(s.days), values: make([]metric.Value, len(s.values))}
	for i, on := range s.days {
		out.values[i] = f(on, s.values[i])
	}
	return out
}

// Add returns the per-day sum of s and other.
func (s Series) Add(other Series) Series { return Sum(s, other) }

// Sum returns the per-day sum of all series over the union of their days.
// Each day sums the defined values only, it is NA if none is defined.
func Sum(series ...Series) Series {
	totals := make(map[Date]metric.Value)
	for _, s := range series {
		for i, on := range s.days {
			totals[on] = metric.Sum(totals[on], s.values[i])
		}
	}
	out := Series{
		days:   make([]Date, 0, len(totals)),
		values: make([]metric.Value, 0, len(totals)),
	}
	for on := range totals {
		out.days = append(out.days, on)
	}
	slices.SortFunc(out.days, func(a, b Date) int { return a.Compare(b) })
	for _, on := range out.days {
		out.values = append(out.values, totals[on])
	}
	return out
}
