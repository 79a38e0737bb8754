package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	d := New(2024, time.February, 15)
	testCases := []struct {
		period Period
		want   Range
	}{
		{Daily, Range{From: d, To: d}},
		{Weekly, Range{From: New(2024, time.February, 12), To: New(2024, time.February, 18)}},
		{Monthly, Range{From: New(2024, time.February, 1), To: New(2024, time.February, 29)}},
		{Quarterly, Range{From: New(2024, time.January, 1), To: New(2024, time.March, 31)}},
		{Yearly, Range{From: New(2024, time.January, 1), To: New(2024, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := NewRange(d, tc.period); got != tc.want {
				t.Errorf("NewRange(%v) = %v, want %v", tc.period, got, tc.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	testCases := []struct {
		in   Range
		want string
	}{
		{NewRange(New(2025, time.September, 8), Daily), "2025-09-08"},
		{NewRange(New(2025, time.January, 6), Weekly), "2025-W02"},
		{NewRange(New(2025, time.September, 1), Monthly), "2025-09"},
		{NewRange(New(2025, time.July, 1), Quarterly), "2025-Q3"},
		{NewRange(New(2025, time.January, 1), Yearly), "2025"},
		{Range{From: New(2025, time.September, 2), To: New(2025, time.September, 10)}, "2025-09-02_2025-09-10"},
	}
	for _, tc := range testCases {
		if got := tc.in.Identifier(); got != tc.want {
			t.Errorf("%v.Identifier() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRange_Contains(t *testing.T) {
	jan := New(2025, time.January, 15)
	testCases := []struct {
		name string
		r    Range
		in   Date
		want bool
	}{
		{"open range", Range{}, jan, true},
		{"open range zero date", Range{}, Date{}, true},
		{"zero date in bounded range", Range{From: jan}, Date{}, false},
		{"since, inside", Range{From: jan}, jan.Add(3), true},
		{"since, before", Range{From: jan}, jan.Add(-1), false},
		{"until, boundary", Range{To: jan}, jan, true},
		{"until, after", Range{To: jan}, jan.Add(1), false},
		{"closed", Range{From: jan, To: jan.Add(2)}, jan.Add(1), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Contains(tc.in); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
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
		{"month", Monthly, false},
		{"quarterly", Quarterly, false},
		{"year", Yearly, false},
		{" Quarter ", Quarterly, false},
		{"fortnight", Daily, true},
		{"", Daily, true},
	}
	for _, tc := range testCases {
		got, err := ParsePeriod(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPeriod_String(t *testing.T) {
	for i, name := range Periods {
		p := Period(i)
		got, err := ParsePeriod(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePeriod(%q) = %v, %v, want %v", p.String(), got, err, p)
		}
		if got, _ := ParsePeriod(name); got != p {
			t.Errorf("ParsePeriod(%q) = %v, want %v", name, got, p)
		}
	}
	if got := Period(9).String(); got != "Period(9)" {
		t.Errorf("Period(9).String() = %q", got)
	}
}
