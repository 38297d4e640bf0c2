package parser

import (
	"strings"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// NarrativeLayout handles the newer export that opens each entry with a
// sentence naming the counterparty:
//
//	0 Jan 05, 2024
//	1 09:15 AM
//	2 Paid to Alice Stores
//	3 Transaction ID T2401050915
//	4 UTR No. 401234567890
//	5 Paid by XXXXXX1234
//	6 DEBIT
//	7 INR                      (optional currency line)
//	8 1,234.50
//
// The counterparty keeps its "Paid to"/"Received from" prefix as printed.
type NarrativeLayout struct{}

func (NarrativeLayout) Name() string {
	return "narrative"
}

func (NarrativeLayout) Extract(b Block) (models.Transaction, bool) {
	if len(b) < minBlockLines {
		return models.Transaction{}, false
	}
	if !containsAny(b[2], narrativeKeywords) {
		return models.Transaction{}, false
	}

	amountLine := strings.TrimSpace(b[7])
	if len(b) > 8 && strings.HasSuffix(amountLine, "INR") {
		amountLine = strings.TrimSpace(b[8])
	}

	txn, err := Normalize(Fields{
		DateLine:     b[0],
		TimeLine:     b[1],
		Counterparty: b[2],
		IDLine:       b[3],
		UTRLine:      b[4],
		Payer:        b[5],
		Kind:         b[6],
		AmountLine:   amountLine,
	})
	if err != nil {
		return models.Transaction{}, false
	}
	return txn, true
}
