package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// OthersLabel names the slice that folds every group past the top n.
const OthersLabel = "Others"

// Slice is one labelled share of a summary chart.
type Slice struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// TopGroups ranks the report's groups by total (ties by counterparty, then
// kind), keeps the first n and folds the rest into an "Others" slice.
// Groups with a zero total are left out.
func TopGroups(r models.Report, n int) []Slice {
	groups := make([]models.GroupTotal, 0, len(r.Groups))
	for _, g := range r.Groups {
		if g.Total.IsPositive() {
			groups = append(groups, g)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		if groups[i].Counterparty != groups[j].Counterparty {
			return groups[i].Counterparty < groups[j].Counterparty
		}
		return groups[i].Kind < groups[j].Kind
	})

	var out []Slice
	others := decimal.Zero
	for i, g := range groups {
		if i < n {
			out = append(out, Slice{Label: g.Counterparty, Amount: g.Total})
			continue
		}
		others = others.Add(g.Total)
	}
	if others.IsPositive() {
		out = append(out, Slice{Label: OthersLabel, Amount: others})
	}
	return out
}
