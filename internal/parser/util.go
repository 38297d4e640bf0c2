package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// mangledRupee is how "₹" reads back when UTF-8 bytes were decoded as Windows-1252.
const mangledRupee = "â‚¹"

// amountToken finds an integer or decimal amount inside surrounding text.
var amountToken = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseAmount converts strings like "₹1,234.50", "â‚¹1,234.50" or
// "Debited INR 1,234.50" to a decimal. Only the first digit run is read, so
// a sign such as "- ₹500" is ignored and the result is never negative. Text
// with no digits parses as zero.
func ParseAmount(s string) decimal.Decimal {
	m := amountToken.FindString(stripCurrency(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, mangledRupee, "")
	s = strings.ReplaceAll(s, "\u20B9", "")
	s = strings.ReplaceAll(s, "INR", "")
	s = strings.ReplaceAll(s, "Rs.", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	return s
}

// looksLikeAmount accepts a currency-prefixed value or a bare run of digits,
// commas and dots.
func looksLikeAmount(line string) bool {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "₹") || strings.HasPrefix(line, mangledRupee) {
		return true
	}
	bare := strings.ReplaceAll(strings.ReplaceAll(line, ",", ""), ".", "")
	if bare == "" {
		return false
	}
	for _, r := range bare {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lastField returns the last whitespace-separated token of line.
func lastField(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

// narrativeKeywords open the counterparty line of the narrative layout.
var narrativeKeywords = []string{"Paid to", "Received from", "Refund", "Payment to"}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
