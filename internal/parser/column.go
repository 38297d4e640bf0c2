package parser

import (
	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// ColumnLayout handles the export where each field sits on its own line in
// table-column order:
//
//	0 Jan 05, 2024
//	1 09:15 AM
//	2 DEBIT
//	3 ₹1,234.50
//	4 Alice Stores
//	5 Transaction ID T2401050915
//	6 UTR No. 401234567890
//	7 Paid by
//	8 XXXXXX1234
type ColumnLayout struct{}

func (ColumnLayout) Name() string {
	return "column"
}

func (ColumnLayout) Extract(b Block) (models.Transaction, bool) {
	if len(b) < minBlockLines {
		return models.Transaction{}, false
	}
	if !looksLikeAmount(b[3]) {
		return models.Transaction{}, false
	}

	f := Fields{
		DateLine:     b[0],
		TimeLine:     b[1],
		Kind:         b[2],
		AmountLine:   b[3],
		Counterparty: b[4],
		IDLine:       b[5],
		UTRLine:      b[6],
	}
	if len(b) > 8 {
		f.Payer = b[8]
	}

	txn, err := Normalize(f)
	if err != nil {
		return models.Transaction{}, false
	}
	return txn, true
}
