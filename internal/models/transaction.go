package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "₹"

// Layouts used to render and re-read the normalized date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "03:04 PM"
)

// Kind labels the aggregator treats specially. Other labels pass through verbatim.
const (
	KindDebit  = "DEBIT"
	KindCredit = "CREDIT"
)

// Transaction represents a single statement entry.
type Transaction struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	Time          string          `json:"time"` // hh:mm AM/PM
	Counterparty  string          `json:"counterparty"`
	TransactionID string          `json:"transactionId"`
	UTR           string          `json:"utr"`
	Payer         string          `json:"payer,omitempty"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // always non-negative
}

// AmountText renders the amount with the currency prefix and two fraction digits.
func (t Transaction) AmountText() string {
	return CurrencySymbol + t.Amount.StringFixed(2)
}

// UTRExport returns the UTR the way spreadsheet exports carry it: with a
// leading tab so the reference is not reformatted as a number.
func (t Transaction) UTRExport() string {
	if t.UTR == "" {
		return ""
	}
	return "\t" + t.UTR
}

// Timestamp combines Date and Time.
func (t Transaction) Timestamp() (time.Time, error) {
	return time.Parse(DateLayout+" "+TimeLayout, t.Date+" "+t.Time)
}

// Day returns the calendar date at midnight UTC.
func (t Transaction) Day() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// SignedAmount is negative for debits and positive otherwise.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CanonicalKind folds the narrative labels used by older exports into
// DEBIT/CREDIT. Unknown labels are upper-cased and returned as is.
func CanonicalKind(kind string) string {
	k := strings.TrimSpace(kind)
	switch {
	case strings.HasPrefix(k, "Paid to"), strings.HasPrefix(k, "Payment to"):
		return KindDebit
	case strings.HasPrefix(k, "Received from"), strings.HasPrefix(k, "Refund"):
		return KindCredit
	}
	return strings.ToUpper(k)
}

// UnifyKinds returns a copy of txns with every Kind passed through CanonicalKind.
func UnifyKinds(txns []Transaction) []Transaction {
	out := make([]Transaction, len(txns))
	for i, txn := range txns {
		txn.Kind = CanonicalKind(txn.Kind)
		out[i] = txn
	}
	return out
}

// Block results recorded in a BlockTrace.
const (
	BlockParsed  = "parsed"
	BlockDropped = "dropped"
)

// BlockTrace captures what the parser did with each segmented block.
type BlockTrace struct {
	Index  int    `json:"index"`
	Header string `json:"header"`
	Lines  int    `json:"lines"`
	Result string `json:"result"`
	Layout string `json:"layout,omitempty"`
}

// ParseStats counts blocks seen against transactions emitted.
type ParseStats struct {
	Blocks   int            `json:"blocks"`
	Parsed   int            `json:"parsed"`
	Dropped  int            `json:"dropped"`
	ByLayout map[string]int `json:"byLayout,omitempty"`
}

// Statement holds the transactions recovered from one extracted document.
type Statement struct {
	Transactions []Transaction
	Stats        ParseStats
	Trace        []BlockTrace
}
