package jsvalue

import (
	"math"
	"testing"
)

func TestNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  float64
	}{
		{name: "int", value: 7, want: 7},
		{name: "float", value: 2.5, want: 2.5},
		{name: "bool true", value: true, want: 1},
		{name: "bool false", value: false, want: 0},
		{name: "numeric string", value: " 42 ", want: 42},
		{name: "empty string", value: "", want: 0},
		{name: "blank string", value: "   ", want: 0},
		{name: "fraction without integer part", value: ".5", want: 0.5},
		{name: "exponent", value: "1e3", want: 1000},
		{name: "hex", value: "0x1A", want: 26},
		{name: "binary", value: "0b101", want: 5},
		{name: "infinity", value: "Infinity", want: math.Inf(1)},
		{name: "negative infinity", value: "-Infinity", want: math.Inf(-1)},
		{name: "empty list", value: []any{}, want: 0},
		{name: "single item list", value: []any{"9"}, want: 9},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Number(tc.value); got != tc.want {
				t.Fatalf("Number(%#v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestNumberNaN(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "abc", "12px", "1_000", "-0x10", "inf", "nan", "e5", []any{1, 2}, map[string]any{}} {
		if got := Number(value); !math.IsNaN(got) {
			t.Fatalf("Number(%#v) = %v, want NaN", value, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	falsy := []any{nil, false, 0, 0.0, math.NaN(), "", []any(nil)}
	for _, value := range falsy {
		if Truthy(value) {
			t.Fatalf("expected %#v to be falsy", value)
		}
	}

	truthy := []any{true, 1, -0.5, "0", " ", []any{}, map[string]any{}, math.Inf(1)}
	for _, value := range truthy {
		if !Truthy(value) {
			t.Fatalf("expected %#v to be truthy", value)
		}
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	empty := []any{nil, "", 0, false, []any{}, map[string]any{}, []string{}}
	for _, value := range empty {
		if !Empty(value) {
			t.Fatalf("expected %#v to be empty", value)
		}
	}

	filled := []any{"x", 3, true, []any{1}, map[string]any{"a": 1}}
	for _, value := range filled {
		if Empty(value) {
			t.Fatalf("expected %#v to be non-empty", value)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		50:                   "50",
		-3:                   "-3",
		1e21:                 "1e+21",
		1e20:                 "100000000000000000000",
		0.000001:             "0.000001",
		0.0000005:            "5e-7",
		math.Copysign(0, -1): "0",
		math.Inf(1):          "Infinity",
		math.Inf(-1):         "-Infinity",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}

	a, b := 0.1, 0.2
	if got := FormatNumber(a + b); got != "0.30000000000000004" {
		t.Fatalf("FormatNumber(0.1+0.2) = %q", got)
	}

	if got := FormatNumber(math.NaN()); got != "NaN" {
		t.Fatalf("FormatNumber(NaN) = %q, want NaN", got)
	}
}

// record is a named mapping like the form data type.
type record map[string]any

func TestString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value any
		want  string
	}{
		{value: nil, want: ""},
		{value: "abc", want: "abc"},
		{value: 12, want: "12"},
		{value: 2.5, want: "2.5"},
		{value: true, want: "true"},
		{value: []any{1, "b"}, want: "1,b"},
		{value: map[string]any{"a": 1}, want: "[object Object]"},
		{value: record{"a": 1}, want: "[object Object]"},
		{value: map[string]int{}, want: "[object Object]"},
	}
	for _, tc := range cases {
		if got := String(tc.value); got != tc.want {
			t.Fatalf("String(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	if !IsNumeric(math.NaN()) {
		t.Fatalf("NaN should count as a numeric value")
	}
	if IsNumeric("5") {
		t.Fatalf("numeric strings are not numeric values")
	}
}
