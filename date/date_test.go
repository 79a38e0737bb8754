package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		in     string
		want   Date
		wantOK bool
	}{
		{"2025-01-05", New(2025, time.January, 5), true},
		{"2025-1-5", New(2025, time.January, 5), true},
		{" 2025-01-05T10:30:00Z ", New(2025, time.January, 5), true},
		{"2025-01-05T10:30:00.000+0530", New(2025, time.January, 5), true},
		{"2025-01-05 10:30:00", New(2025, time.January, 5), true},
		{"1/5/2025", New(2025, time.January, 5), true},
		{"Jan 5, 2025", New(2025, time.January, 5), true},
		{"", Date{}, false},
		{"yesterday-ish", Date{}, false},
		{"2025-13-45", Date{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tc.in, ok, tc.wantOK)
			}
			if FromTime(got) != tc.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, FromTime(got), tc.want)
			}
		})
	}
}

func TestParse_Relative(t *testing.T) {
	today := Today()
	testCases := []struct {
		in   string
		want Date
	}{
		{"0d", today},
		{"-1d", today.Add(-1)},
		{"+2w", today.Add(14)},
		{"2024-02-29", New(2024, time.February, 29)},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := Parse("soon"); err == nil {
		t.Errorf("Parse(%q) expected an error", "soon")
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2025, time.March, 9)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"2025-03-09"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if back != d {
		t.Errorf("UnmarshalJSON() = %v, want %v", back, d)
	}
}
