package core

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		value    float64
		currency string
		want     string
	}{
		{1000, "", "₹1,000"},
		{1000.5, "", "₹1,000.50"},
		{4509, "₹", "₹4,509"},
		{250.09, "$", "$250.09"},
		{0, "", "₹0"},
		{999, "", "₹999"},
		{1234567.891, "", "₹1,234,567.89"},
		{1.005, "", "₹1.01"},
		{-1000, "", "₹-1,000"},
		{2500, "USD", "$2,500"},
		{2500, "INR", "₹2,500"},
		{2500, "€", "€2,500"},
		{2500, "usd", "usd2,500"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.value, tc.currency); got != tc.want {
			t.Fatalf("FormatCurrency(%v, %q) = %q, want %q", tc.value, tc.currency, got, tc.want)
		}
	}
}

func TestFormatCurrencyNonFinite(t *testing.T) {
	if got := FormatCurrency(math.NaN(), ""); got != "₹NaN" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCurrency(math.Inf(-1), "$"); got != "$-∞" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{2500000, "2.5M"},
		{1000000, "1.0M"},
		{2500, "2.5K"},
		{1000, "1.0K"},
		{25000, "25.0K"},
		{2550, "2.5K"},
		{1450, "1.4K"},
		{1250, "1.3K"},
		{2560, "2.6K"},
		{1050000, "1.1M"},
		{999950, "1000.0K"},
		{999, "999"},
		{250, "250"},
		{250.09, "250.09"},
		{0, "0"},
		{-2500, "-2500"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.value); got != tc.want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
	if got := Average([]float64{10, 20, 30}); got != 20 {
		t.Fatalf("expected 20, got %v", got)
	}
}

func TestClampPercent(t *testing.T) {
	cases := []struct {
		value, max, want float64
	}{
		{50, 100, 50},
		{150, 100, 100},
		{-5, 100, 0},
		{5, 0, 0},
		{5, -1, 0},
		{4500, 5000, 90},
	}
	for _, tc := range cases {
		if got := ClampPercent(tc.value, tc.max); got != tc.want {
			t.Fatalf("ClampPercent(%v, %v) = %v, want %v", tc.value, tc.max, got, tc.want)
		}
	}
}

func TestCurrencySymbol(t *testing.T) {
	cases := map[string]string{
		"":    DefaultCurrencySymbol,
		"  ":  DefaultCurrencySymbol,
		"INR": "₹",
		"USD": "$",
		"EUR": "€",
		"₹":   "₹",
		"XYZ": "XYZ",
	}
	for in, want := range cases {
		if got := CurrencySymbol(in); got != want {
			t.Fatalf("CurrencySymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
