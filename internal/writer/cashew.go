package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

var cashewHeader = []string{"Date", "Amount", "Category", "Title", "Note", "Account"}

// cashewDateLayout is the timestamp format the Cashew importer expects.
const cashewDateLayout = "02-01-2006 15:04"

// CashewWriter exports transactions in the Cashew budgeting app's import
// format. Debits are written as negative amounts.
type CashewWriter struct {
	// Categories supplies per-payee category and note. May be nil.
	Categories *CategoryTable
}

// CashewFileName returns the default export name for a run at t,
// e.g. "cashew-2024-03-01_18-05-09.csv".
func CashewFileName(t time.Time) string {
	return "cashew-" + t.Format("2006-01-02_15-04-05") + ".csv"
}

// WriteToDir writes the export to a timestamped file in dir and returns its path.
func (w *CashewWriter) WriteToDir(dir string, txns []models.Transaction, now time.Time) (string, error) {
	path := filepath.Join(dir, CashewFileName(now))
	err := writeFile(path, func(out io.Writer) error {
		return w.Write(out, txns)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Write writes the Cashew CSV to out.
func (w *CashewWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(cashewHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		ts, err := txn.Timestamp()
		if err != nil {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, err)
		}

		entry := w.Categories.Lookup(txn.Counterparty)
		row := []string{
			ts.Format(cashewDateLayout),
			txn.SignedAmount().StringFixed(2),
			entry.Category,
			cashewTitle(txn),
			entry.Note,
			"",
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func cashewTitle(txn models.Transaction) string {
	if txn.Counterparty != "" {
		return txn.Counterparty
	}
	if txn.Kind == models.KindCredit {
		return "Received"
	}
	return "Paid"
}
