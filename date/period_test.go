package date

import (
	"slices"
	"testing"
	"time"
)

func TestPeriod_Range(t *testing.T) {
	testCases := []struct {
		name   string
		period Period
		in     Date
		want   Range
	}{
		{"daily", Daily, New(2025, time.September, 8), Range{New(2025, time.September, 8), New(2025, time.September, 8)}},
		{"a wednesday", Weekly, New(2025, time.September, 10), Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"a sunday", Weekly, New(2025, time.September, 14), Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"leap february", Monthly, New(2024, time.February, 15), Range{New(2024, time.February, 1), New(2024, time.February, 29)}},
		{"Q2", Quarterly, New(2025, time.May, 20), Range{New(2025, time.April, 1), New(2025, time.June, 30)}},
		{"year", Yearly, New(2025, time.September, 8), Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.period.Range(tc.in); got != tc.want {
				t.Errorf("%v.Range(%v) = %v, want %v", tc.period, tc.in, got, tc.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want string
	}{
		{"daily", Daily.Range(New(2025, time.September, 8)), "2025-09-08"},
		{"weekly", Weekly.Range(New(2025, time.September, 8)), "2025-W37"},
		{"monthly", Monthly.Range(New(2025, time.September, 1)), "2025-09"},
		{"quarterly", Quarterly.Range(New(2025, time.July, 1)), "2025-Q3"},
		{"yearly", Yearly.Range(New(2025, time.January, 1)), "2025"},
		{"custom", Range{From: New(2025, time.September, 2), To: New(2025, time.September, 10)}, "2025-09-02_2025-09-10"},
		{"two years", Range{From: New(2025, time.January, 1), To: New(2026, time.December, 31)}, "2025-01-01_2026-12-31"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Identifier(); got != tc.want {
				t.Errorf("Identifier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRange_Periods(t *testing.T) {
	r := NewRange(New(2025, time.January, 15), New(2025, time.March, 2))
	var got []string
	for p := range r.Periods(Monthly) {
		got = append(got, p.Identifier())
	}
	if want := []string{"2025-01", "2025-02", "2025-03"}; !slices.Equal(got, want) {
		t.Errorf("Periods(Monthly) = %v, want %v", got, want)
	}
}

func TestRange_Days(t *testing.T) {
	r := NewRange(New(2024, time.March, 1), New(2024, time.February, 27))
	if got, want := r.Len(), 4; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	days := slices.Collect(r.Days())
	if len(days) != r.Len() {
		t.Fatalf("Days() yields %d days, want %d", len(days), r.Len())
	}
	if got, want := days[2], New(2024, time.February, 29); got != want {
		t.Errorf("Days()[2] = %v, want %v", got, want)
	}
	if !r.Contains(New(2024, time.February, 29)) || r.Contains(New(2024, time.March, 2)) {
		t.Errorf("Contains() mismatch for %v", r)
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", Daily, false},
		{"Week", Weekly, false},
		{"monthly", Monthly, false},
		{"quarter", Quarterly, false},
		{"yearly", Yearly, false},
		{"fortnight", Daily, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParsePeriod() error = %v, wantErr %v", err, tc.wantErr)
				return
			}
			if got != tc.want {
				t.Errorf("ParsePeriod() = %v, want %v", got, tc.want)
			}
		})
	}
}
