package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

var groupedHeader = []string{"Type", "Payee", "Count", "Total Amount (" + models.CurrencySymbol + ")"}

// GroupedCSVWriter writes one row per (type, payee) group followed by a
// summary section.
type GroupedCSVWriter struct{}

// WriteToFile writes the grouped summary to a CSV file at the given path.
func (w *GroupedCSVWriter) WriteToFile(path string, r models.Report) error {
	return writeFile(path, func(out io.Writer) error {
		return w.Write(out, r)
	})
}

// Write writes the grouped summary to out.
func (w *GroupedCSVWriter) Write(out io.Writer, r models.Report) error {
	writer := csv.NewWriter(out)

	rows := [][]string{groupedHeader}
	for _, g := range r.Groups {
		rows = append(rows, []string{g.Kind, g.Counterparty, strconv.Itoa(g.Count), formatRupees(g.Total)})
	}

	rows = append(rows,
		[]string{},
		[]string{"Summary"},
		[]string{"Most Amount Sent To", r.MostSentTo.Key, formatRupees(r.MostSentTo.Amount)},
		[]string{"Most Amount Received From", r.MostReceivedFrom.Key, formatRupees(r.MostReceivedFrom.Amount)},
		[]string{"Most Spent Day", r.MostSpentDay.Key, formatRupees(r.MostSpentDay.Amount)},
		[]string{"Average Daily Spend", formatRupees(r.AverageDaily)},
		[]string{"Average Weekly Spend", formatRupees(r.AverageWeekly)},
		[]string{"Average Monthly Spend", formatRupees(r.AverageMonthly)},
	)

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write grouped CSV: %w", err)
	}
	return nil
}
