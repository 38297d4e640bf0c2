package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

func TestCashewWriter_Write(t *testing.T) {
	txns := []models.Transaction{
		{Date: "2024-01-05", Time: "09:15 PM", Kind: "DEBIT", Counterparty: "Alice Stores", Amount: decimal.RequireFromString("1234.5")},
		{Date: "2024-01-06", Time: "07:42 AM", Kind: "CREDIT", Amount: decimal.RequireFromString("500")},
		{Date: "2024-01-07", Time: "12:05 AM", Kind: "DEBIT", Amount: decimal.RequireFromString("20")},
	}
	w := &CashewWriter{Categories: NewCategoryTable(map[string]string{"alice stores": "Groceries"})}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, txns))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Date,Amount,Category,Title,Note,Account",
		"05-01-2024 21:15,-1234.50,Groceries,Alice Stores,,",
		"06-01-2024 07:42,500.00,,Received,,",
		"07-01-2024 00:05,-20.00,,Paid,,",
	}, lines)
}

func TestCashewWriter_NilCategories(t *testing.T) {
	w := &CashewWriter{}
	var buf bytes.Buffer
	err := w.Write(&buf, []models.Transaction{
		{Date: "2024-01-05", Time: "09:15 AM", Kind: "DEBIT", Counterparty: "Alice", Amount: decimal.RequireFromString("1")},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "05-01-2024 09:15,-1.00,,Alice,,")
}

func TestCashewWriter_BadTimestamp(t *testing.T) {
	w := &CashewWriter{}
	err := w.Write(&bytes.Buffer{}, []models.Transaction{{Date: "yesterday", Time: "noon"}})
	assert.Error(t, err)
}

func TestCashewWriter_WriteToDir(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 18, 5, 9, 0, time.UTC)

	path, err := (&CashewWriter{}).WriteToDir(dir, nil, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cashew-2024-03-01_18-05-09.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount,Category,Title,Note,Account\n", string(data))
}

func TestReadCategories(t *testing.T) {
	input := "Payee,Category,Note\nAlice Stores, Groceries, weekly shop\nBob,Rent\n"

	table, err := ReadCategories(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	assert.Equal(t, CategoryEntry{Category: "Groceries", Note: "weekly shop"}, table.Lookup("  ALICE STORES "))
	assert.Equal(t, CategoryEntry{Category: "Rent"}, table.Lookup("Bob"))
	assert.Equal(t, CategoryEntry{}, table.Lookup("Carol"))
}

func TestReadCategories_ShortRow(t *testing.T) {
	_, err := ReadCategories(strings.NewReader("Alice\n"))
	assert.Error(t, err)
}

func TestLoadCategoryFile_Missing(t *testing.T) {
	_, err := LoadCategoryFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCategoryTable_Nil(t *testing.T) {
	var table *CategoryTable
	assert.Equal(t, CategoryEntry{}, table.Lookup("Alice"))
	assert.Equal(t, 0, table.Len())
}
