package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// rawHeader is the column layout of the per-transaction export.
var rawHeader = []string{"Date", "Time", "Payee", "Transaction ID", "UTR No.", "Payer", "Type", "Amount"}

// CSVWriter writes one row per transaction, in statement order.
type CSVWriter struct{}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	return writeFile(path, func(out io.Writer) error {
		return w.Write(out, txns)
	})
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(rawHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		row := []string{
			txn.Date,
			txn.Time,
			txn.Counterparty,
			txn.TransactionID,
			txn.UTRExport(),
			txn.Payer,
			txn.Kind,
			txn.AmountText(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a file written by CSVWriter back into transactions.
func ReadCSV(in io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = len(rawHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(rawHeader, ",") {
		return nil, fmt.Errorf("unexpected CSV header %q", header)
	}

	txns := []models.Transaction{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		amount, err := parseRupees(row[7])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txn := models.Transaction{
			Date:          row[0],
			Time:          row[1],
			Counterparty:  row[2],
			TransactionID: row[3],
			UTR:           strings.TrimPrefix(row[4], "\t"),
			Payer:         row[5],
			Kind:          row[6],
			Amount:        amount,
		}
		if _, err := txn.Timestamp(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// writeFile creates path and hands it to write, reporting close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %q: %w", path, cerr)
		}
	}()

	return write(f)
}
