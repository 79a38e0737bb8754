package tradebook

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty object",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "ordered fields",
			build: func(w *jsonObjectWriter) {
				w.Append("product", "rice")
				w.Append("purchased", Q(10))
			},
			want: `{"product":"rice","purchased":"10"}`,
		},
		{
			name: "optional fields",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0)
				w.Optional("b", "")
				w.Optional("c", 0)
				w.Optional("d", "bags")
			},
			want: `{"a":0,"d":"bags"}`,
		},
		{
			name: "embed object",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.Embed(json.RawMessage(`{"c":3,"d":4}`))
				w.Append("b", 2)
			},
			want: `{"a":1,"c":3,"d":4,"b":2}`,
		},
		{
			name: "embed from",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.EmbedFrom(struct {
					C int `json:"c"`
				}{C: 3})
			},
			want: `{"a":1,"c":3}`,
		},
		{
			name: "embed empty object",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.Embed([]byte(`{}`))
			},
			want: `{"a":1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w jsonObjectWriter
			tt.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(12.345, "EUR"), `{"currency":"EUR","amount":"12.35"}`},
		{M(1250, ""), `{"amount":"1250"}`},
		{M(100, "JPY"), `{"currency":"JPY","amount":"100"}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.m)
		if err != nil {
			t.Fatalf("Marshal(%v) unexpected error: %v", tt.m, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.m, got, tt.want)
		}
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(1250.5, ""), "1250.50"},
		{M(3, "XXXX"), "3.00"},
		{M(-7.1, ""), "-7.10"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoney_Div(t *testing.T) {
	if got := M(100, "").Div(Q(0)); !got.IsZero() {
		t.Errorf("Div by zero = %v, want 0", got)
	}
	if got := M(100, "").Div(Q(8)); !got.Equal(M(12.5, "")) {
		t.Errorf("Div(8) = %v, want 12.5", got)
	}
}
