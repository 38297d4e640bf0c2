// Package aggregate derives counterparty totals, debit time buckets, extremes
// and spend averages from a parsed transaction sequence.
//
// All sums are exact decimals accumulated in input order, and every ranking
// breaks ties by key, so identical input always yields an identical Report.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

var (
	daysPerWeek  = decimal.NewFromInt(7)
	daysPerMonth = decimal.NewFromInt(30)
)

type groupKey struct {
	kind, counterparty string
}

// Aggregate builds a Report from txns. Transactions whose date cannot be
// parsed still count towards their group but not towards any time bucket.
func Aggregate(txns []models.Transaction) models.Report {
	r := models.Report{
		Groups:      []models.GroupTotal{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	groupIndex := map[groupKey]int{}
	sentTo := newTally()
	receivedFrom := newTally()
	daily := newTally()
	weekly := newTally()
	monthly := newTally()

	var first, last time.Time

	for _, txn := range txns {
		k := groupKey{txn.Kind, txn.Counterparty}
		i, ok := groupIndex[k]
		if !ok {
			i = len(r.Groups)
			groupIndex[k] = i
			r.Groups = append(r.Groups, models.GroupTotal{
				Kind:         txn.Kind,
				Counterparty: txn.Counterparty,
				Total:        decimal.Zero,
			})
		}
		r.Groups[i].Count++
		r.Groups[i].Total = r.Groups[i].Total.Add(txn.Amount)

		switch txn.Kind {
		case models.KindCredit:
			r.TotalCredit = r.TotalCredit.Add(txn.Amount)
			receivedFrom.add(txn.Counterparty, txn.Amount)
		case models.KindDebit:
			r.TotalDebit = r.TotalDebit.Add(txn.Amount)
			sentTo.add(txn.Counterparty, txn.Amount)

			day, err := txn.Day()
			if err != nil {
				continue
			}
			daily.add(txn.Date, txn.Amount)
			weekly.add(weekKey(day), txn.Amount)
			monthly.add(day.Format("2006-01"), txn.Amount)

			if first.IsZero() || day.Before(first) {
				first = day
			}
			if day.After(last) {
				last = day
			}
		}
	}

	r.Daily = daily.buckets()
	r.Weekly = weekly.buckets()
	r.Monthly = monthly.buckets()

	r.MostSentTo = sentTo.max()
	r.MostReceivedFrom = receivedFrom.max()
	r.MostSpentDay = daily.max()

	r.SpanDays = spanDays(first, last)
	r.AverageDaily = decimal.Zero
	if r.SpanDays > 0 {
		r.AverageDaily = r.TotalDebit.Div(decimal.NewFromInt(int64(r.SpanDays)))
	}
	r.AverageWeekly = r.AverageDaily.Mul(daysPerWeek)
	r.AverageMonthly = r.AverageDaily.Mul(daysPerMonth)

	return r
}

// weekKey formats the ISO week holding t, e.g. "2024-W05". The year is the
// ISO year, so Dec 30 2024 falls in "2025-W01".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// spanDays counts the calendar days from first to last inclusive; zero when
// there were no dated debits.
func spanDays(first, last time.Time) int {
	if first.IsZero() {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// tally sums amounts per key, remembering first-seen order.
type tally struct {
	keys   []string
	totals map[string]decimal.Decimal
}

func newTally() *tally {
	return &tally{totals: map[string]decimal.Decimal{}}
}

func (t *tally) add(key string, amount decimal.Decimal) {
	cur, ok := t.totals[key]
	if !ok {
		t.keys = append(t.keys, key)
		cur = decimal.Zero
	}
	t.totals[key] = cur.Add(amount)
}

// buckets returns the totals ordered by key.
func (t *tally) buckets() []models.Bucket {
	keys := append([]string(nil), t.keys...)
	sort.Strings(keys)

	out := make([]models.Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.Bucket{Key: k, Total: t.totals[k]})
	}
	return out
}

// max picks the largest total, breaking ties by the smallest key. With no
// entries it reports {"None", 0}.
func (t *tally) max() models.Extreme {
	if len(t.keys) == 0 {
		return models.Extreme{Key: models.NoneKey, Amount: decimal.Zero}
	}

	ranked := make([]models.Extreme, 0, len(t.keys))
	for _, k := range t.keys {
		ranked = append(ranked, models.Extreme{Key: k, Amount: t.totals[k]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Amount.Cmp(ranked[j].Amount); c != 0 {
			return c > 0
		}
		return ranked[i].Key < ranked[j].Key
	})
	return ranked[0]
}
