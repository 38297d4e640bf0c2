package parser

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"₹1,234.50", "1234.5"},
		{"â‚¹1,234.50", "1234.5"},
		{"1,234.50", "1234.5"},
		{" ₹ 25 ", "25"},
		{"₹1,00,000", "100000"},
		{"Debited INR 1,234.50 via UPI", "1234.5"},
		{"Rs.99.99", "99.99"},
		{"₹1 234.50", "1234.5"},
		{"INR", "0"},
		{"", "0"},
		{"no digits here", "0"},
		{"-500", "500"},
		{"- ₹500", "500"},
		{"₹-1,234.50", "1234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q): got %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestLooksLikeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"₹1,234.50", true},
		{"  ₹12", true},
		{"â‚¹1,234.50", true},
		{"1,234.50", true},
		{"1234", true},
		{"Paid to Alice", false},
		{"DEBIT", false},
		{"12 AM", false},
		{"", false},
		{",.", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := looksLikeAmount(tt.input)
			if got != tt.expected {
				t.Errorf("looksLikeAmount(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLastField(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"Transaction ID T2401050915", "T2401050915", true},
		{"UTR No.\t401234567890  ", "401234567890", true},
		{"single", "single", true},
		{"   ", "", false},
	}

	for _, tt := range tests {
		got, ok := lastField(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("lastField(%q): got (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
