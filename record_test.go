package tradebook

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecord_Number(t *testing.T) {
	tests := []struct {
		name        string
		rec         Record
		want        float64
		wantPresent bool
	}{
		{"float", Record{"quantity": 12.5}, 12.5, true},
		{"int", Record{"qty": 7}, 7, true},
		{"json number", Record{"quantity": json.Number("40")}, 40, true},
		{"json number exponent", Record{"quantity": json.Number("1e2")}, 100, true},
		{"json number upper exponent", Record{"quantity": json.Number("2.5E1")}, 25, true},
		{"signed exponent", Record{"quantity": "1E+3"}, 1000, true},
		{"text exponent", Record{"quantity": "1.5e2"}, 150, true},
		{"currency with exponent", Record{"quantity": "$ 1.5e2"}, 150, true},
		{"decimal", Record{"quantity": decimal.NewFromInt(3)}, 3, true},
		{"thousands separator", Record{"quantity": "1,250.50"}, 1250.5, true},
		{"currency prefix", Record{"quantity": "Rs 1,250"}, 1250, true},
		{"currency code", Record{"quantity": "PKR 1,000"}, 1000, true},
		{"dollar", Record{"quantity": "$5"}, 5, true},
		{"negative with spaces", Record{"quantity": " -20 "}, -20, true},
		{"not a number", Record{"quantity": "abc"}, 0, true},
		{"NaN", Record{"quantity": math.NaN()}, 0, true},
		{"null", Record{"quantity": nil}, 0, false},
		{"blank", Record{"quantity": "  "}, 0, false},
		{"missing", Record{"other": 1}, 0, false},
		{"object", Record{"quantity": map[string]any{"a": 1}}, 0, true},
		{"first non zero synonym", Record{"quantity": 0, "bags": 9}, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := tt.rec.Number(FieldQuantity)
			if !got.Equal(decimal.NewFromFloat(tt.want)) {
				t.Errorf("Number() = %v, want %v", got, tt.want)
			}
			if present != tt.wantPresent {
				t.Errorf("Number() present = %v, want %v", present, tt.wantPresent)
			}
		})
	}
}

func TestRecord_Text(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"camel case", Record{"productType": " Rice "}, "Rice"},
		{"snake case", Record{"product_type": "Wheat"}, "Wheat"},
		{"nested", Record{"product": map[string]any{"name": "Maize"}}, "Maize"},
		{"preference order", Record{"product": "B", "productType": "A"}, "A"},
		{"blank skipped", Record{"productType": "", "productName": "C"}, "C"},
		{"number", Record{"productType": 42}, "42"},
		{"missing", Record{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Text(FieldProduct); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_Time(t *testing.T) {
	jan1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		rec    Record
		want   time.Time
		wantOK bool
	}{
		{"iso date", Record{"date": "2025-01-01"}, jan1, true},
		{"rfc3339", Record{"date": "2025-01-01T00:00:00Z"}, jan1, true},
		{"slash is month first", Record{"date": "3/4/2025"}, time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), true},
		{"time value", Record{"createdAt": jan1}, jan1, true},
		{"epoch millis", Record{"timestamp": 1735689600000}, jan1, true},
		{"epoch seconds", Record{"timestamp": 1735689600}, jan1, true},
		{"epoch string", Record{"timestamp": "1735689600000"}, jan1, true},
		{"extended json", Record{"date": map[string]any{"$date": "2025-01-01T00:00:00Z"}}, jan1, true},
		{"garbage", Record{"date": "someday"}, time.Time{}, false},
		{"negative", Record{"date": -5}, time.Time{}, false},
		{"missing", Record{}, time.Time{}, false},
		{"falls back to next synonym", Record{"date": "later", "createdAt": "2025-01-01"}, jan1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.Time(FieldDate)
			if ok != tt.wantOK {
				t.Fatalf("Time() ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Time() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_Items(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want int
	}{
		{"array", Record{"items": []any{map[string]any{"qty": 1}, map[string]any{"qty": 2}}}, 2},
		{"json string", Record{"lineItems": `[{"productType":"rice","quantity":"3"}]`}, 1},
		{"not an array", Record{"items": "rice"}, 0},
		{"invalid json", Record{"items": "[{"}, 0},
		{"empty", Record{"items": []any{}}, 0},
		{"missing", Record{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Items(FieldItems); len(got) != tt.want {
				t.Errorf("len(Items()) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"CRC":              "crc",
		"  Basmati  Rice ": "basmati rice",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
