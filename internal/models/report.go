package models

import "github.com/shopspring/decimal"

// NoneKey is reported for an extreme when there was nothing to rank.
const NoneKey = "None"

// GroupTotal accumulates the transactions sharing a (kind, counterparty) pair.
type GroupTotal struct {
	Kind         string          `json:"kind"`
	Counterparty string          `json:"counterparty"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// Bucket is the debit total of one day, ISO week or calendar month.
type Bucket struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// Extreme names the key holding the largest total in some ranking.
type Extreme struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// Report summarises a transaction sequence.
type Report struct {
	Groups  []GroupTotal `json:"groups"` // first-seen order
	Daily   []Bucket     `json:"daily"`
	Weekly  []Bucket     `json:"weekly"`
	Monthly []Bucket     `json:"monthly"`

	MostSentTo       Extreme `json:"mostSentTo"`
	MostReceivedFrom Extreme `json:"mostReceivedFrom"`
	MostSpentDay     Extreme `json:"mostSpentDay"`

	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	SpanDays    int             `json:"spanDays"`

	AverageDaily   decimal.Decimal `json:"averageDaily"`
	AverageWeekly  decimal.Decimal `json:"averageWeekly"`
	AverageMonthly decimal.Decimal `json:"averageMonthly"`
}

// Group looks up the total for a (kind, counterparty) pair.
func (r *Report) Group(kind, counterparty string) (GroupTotal, bool) {
	for _, g := range r.Groups {
		if g.Kind == kind && g.Counterparty == counterparty {
			return g, true
		}
	}
	return GroupTotal{}, false
}
