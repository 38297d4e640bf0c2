package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{
			Date: "2024-01-05", Time: "09:15 AM", Counterparty: "Alice Stores",
			TransactionID: "T2401050915", UTR: "401234567890", Payer: "XXXXXX1234",
			Kind: "DEBIT", Amount: decimal.RequireFromString("1234.50"),
		},
		{
			Date: "2024-01-06", Time: "07:42 PM", Counterparty: "Received from Bob, Jr.",
			TransactionID: "T2401061942", UTR: "404512345678",
			Kind: "CREDIT", Amount: decimal.RequireFromString("500"),
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.HasPrefix(output, "Date,Time,Payee,Transaction ID,UTR No.,Payer,Type,Amount\n") {
		t.Errorf("expected column headers, got %q", output)
	}
	if !strings.Contains(output, "2024-01-05,09:15 AM,Alice Stores,T2401050915,\"\t401234567890\",XXXXXX1234,DEBIT,₹1234.50") {
		t.Errorf("expected first transaction row, got %q", output)
	}
	if !strings.Contains(output, "\"Received from Bob, Jr.\"") {
		t.Error("expected payee with comma to be quoted")
	}
	if !strings.Contains(output, "₹500.00") {
		t.Error("expected amount with two fraction digits")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	txns := sampleTransactions()

	var buf bytes.Buffer
	if err := (&CSVWriter{}).Write(&buf, txns); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(txns) {
		t.Fatalf("got %d transactions, want %d", len(got), len(txns))
	}

	for i := range txns {
		want := txns[i]
		if got[i].Date != want.Date || got[i].Time != want.Time ||
			got[i].Counterparty != want.Counterparty || got[i].Kind != want.Kind {
			t.Errorf("txn[%d]: got %+v, want %+v", i, got[i], want)
		}
		if !got[i].Amount.Equal(want.Amount) {
			t.Errorf("txn[%d].Amount: got %s, want %s", i, got[i].Amount, want.Amount)
		}
		if got[i].UTR != want.UTR {
			t.Errorf("txn[%d].UTR: got %q, want %q", i, got[i].UTR, want.UTR)
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong header", "Date,Amount\n"},
		{"bad amount", "Date,Time,Payee,Transaction ID,UTR No.,Payer,Type,Amount\n2024-01-05,09:15 AM,A,T1,U1,,DEBIT,₹abc\n"},
		{"bad date", "Date,Time,Payee,Transaction ID,UTR No.,Payer,Type,Amount\n05/01/2024,09:15 AM,A,T1,U1,,DEBIT,₹1.00\n"},
		{"short row", "Date,Time,Payee,Transaction ID,UTR No.,Payer,Type,Amount\n2024-01-05,09:15 AM\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := (&CSVWriter{}).WriteToFile(path, sampleTransactions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Alice Stores") {
		t.Error("expected transaction in written file")
	}
}

func TestCSVWriter_WriteToFileBadPath(t *testing.T) {
	err := (&CSVWriter{}).WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"25.99", "₹25.99"},
		{"1234.5", "₹1234.50"},
		{"0", "₹0.00"},
		{"2500", "₹2500.00"},
	}

	for _, tt := range tests {
		got := formatRupees(decimal.RequireFromString(tt.input))
		if got != tt.expected {
			t.Errorf("formatRupees(%s): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}
