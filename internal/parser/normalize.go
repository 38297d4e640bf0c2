package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// statementTimestampLayout matches a header line joined with its time line:
// "Jan 05, 2024 09:15 AM".
const statementTimestampLayout = "Jan 2, 2006 3:04 PM"

// Fields holds the raw lines a layout picked out of a block.
type Fields struct {
	DateLine     string
	TimeLine     string
	Kind         string
	AmountLine   string
	Counterparty string
	IDLine       string
	UTRLine      string
	Payer        string
}

var (
	errMissingID  = errors.New("no transaction id token")
	errMissingUTR = errors.New("no UTR token")
)

// Normalize turns extracted lines into a Transaction. It fails as a whole:
// no partially populated Transaction is ever returned.
func Normalize(f Fields) (models.Transaction, error) {
	ts, err := parseTimestamp(f.DateLine, f.TimeLine)
	if err != nil {
		return models.Transaction{}, err
	}

	id, ok := lastField(f.IDLine)
	if !ok {
		return models.Transaction{}, errMissingID
	}
	utr, ok := lastField(f.UTRLine)
	if !ok {
		return models.Transaction{}, errMissingUTR
	}

	return models.Transaction{
		Date:          ts.Format(models.DateLayout),
		Time:          ts.Format(models.TimeLayout),
		Counterparty:  strings.TrimSpace(f.Counterparty),
		TransactionID: id,
		UTR:           utr,
		Payer:         strings.TrimSpace(f.Payer),
		Kind:          strings.TrimSpace(f.Kind),
		Amount:        ParseAmount(f.AmountLine).Round(2),
	}, nil
}

func parseTimestamp(dateLine, timeLine string) (time.Time, error) {
	// The PM layout element only accepts upper case.
	raw := strings.TrimSpace(dateLine) + " " + strings.ToUpper(strings.TrimSpace(timeLine))
	ts, err := time.Parse(statementTimestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return ts, nil
}
