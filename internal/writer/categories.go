package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CategoryEntry is what the category table knows about one payee.
type CategoryEntry struct {
	Category string
	Note     string
}

// CategoryTable maps payee names to categories and notes. Lookups are
// case-insensitive and ignore surrounding whitespace.
type CategoryTable struct {
	entries map[string]CategoryEntry
}

// NewCategoryTable builds a table from payee → category pairs.
func NewCategoryTable(categories map[string]string) *CategoryTable {
	t := &CategoryTable{entries: make(map[string]CategoryEntry, len(categories))}
	for payee, category := range categories {
		t.entries[categoryKey(payee)] = CategoryEntry{Category: category}
	}
	return t
}

// LoadCategoryFile reads a "Payee,Category[,Note]" CSV file.
func LoadCategoryFile(path string) (*CategoryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open category file %q: %w", path, err)
	}
	defer f.Close()

	return ReadCategories(f)
}

// ReadCategories reads a "Payee,Category[,Note]" CSV. A first row whose
// first cell is "Payee" is treated as a header.
func ReadCategories(in io.Reader) (*CategoryTable, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	t := &CategoryTable{entries: map[string]CategoryEntry{}}
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read category row %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "Payee") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("category row %d: want at least 2 columns, got %d", line, len(row))
		}

		entry := CategoryEntry{Category: strings.TrimSpace(row[1])}
		if len(row) > 2 {
			entry.Note = strings.TrimSpace(row[2])
		}
		t.entries[categoryKey(row[0])] = entry
	}
	return t, nil
}

// Lookup returns the entry for payee, or an empty entry. A nil table is empty.
func (t *CategoryTable) Lookup(payee string) CategoryEntry {
	if t == nil {
		return CategoryEntry{}
	}
	return t.entries[categoryKey(payee)]
}

// Len reports the number of payees in the table.
func (t *CategoryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func categoryKey(payee string) string {
	return strings.ToLower(strings.TrimSpace(payee))
}
