package writer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// formatRupees renders an amount as "₹1234.50".
func formatRupees(d decimal.Decimal) string {
	return models.CurrencySymbol + d.StringFixed(2)
}

func parseRupees(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), models.CurrencySymbol)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
