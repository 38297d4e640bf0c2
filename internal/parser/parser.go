package parser

import (
	"errors"

	"github.com/insightdelivered/phonepe-statement-converter/internal/models"
)

// minBlockLines is the shortest block any known layout can describe.
const minBlockLines = 8

// ErrNoTransactions is returned when no block in the text matched a layout.
var ErrNoTransactions = errors.New("no transactions found")

// Layout extracts one transaction from a block laid out in a particular
// historical export format. Extract reports false when the block does not
// have the layout's shape or a field fails to parse. Chain treats a panic
// inside Extract as a non-match.
type Layout interface {
	// Name identifies the layout in parse diagnostics.
	Name() string
	Extract(b Block) (models.Transaction, bool)
}

// Chain tries layouts in priority order; the first match wins.
type Chain []Layout

// DefaultChain lists every supported export layout, oldest first.
func DefaultChain() Chain {
	return Chain{ColumnLayout{}, NarrativeLayout{}}
}

// Parse returns the transaction from the first layout that accepts b, and
// the name of that layout.
func (c Chain) Parse(b Block) (models.Transaction, string, bool) {
	for _, l := range c {
		if txn, ok := tryLayout(l, b); ok {
			return txn, l.Name(), true
		}
	}
	return models.Transaction{}, "", false
}

func tryLayout(l Layout, b Block) (txn models.Transaction, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			txn, ok = models.Transaction{}, false
		}
	}()
	return l.Extract(b)
}

// ParseText segments text and parses every block with the default chain.
// Blocks no layout accepts are dropped and only show up in the statement's
// Stats and Trace. When nothing parses, the statement is still returned
// together with ErrNoTransactions.
func ParseText(text string) (*models.Statement, error) {
	return DefaultChain().ParseText(text)
}

// ParseText is ParseText using c.
func (c Chain) ParseText(text string) (*models.Statement, error) {
	stmt := &models.Statement{
		Transactions: []models.Transaction{},
		Stats:        models.ParseStats{ByLayout: map[string]int{}},
	}

	i := 0
	for b := range Blocks(text) {
		trace := models.BlockTrace{
			Index:  i,
			Header: b.Header(),
			Lines:  len(b),
			Result: models.BlockDropped,
		}
		i++
		stmt.Stats.Blocks++

		if txn, layout, ok := c.Parse(b); ok {
			stmt.Transactions = append(stmt.Transactions, txn)
			stmt.Stats.Parsed++
			stmt.Stats.ByLayout[layout]++
			trace.Result = models.BlockParsed
			trace.Layout = layout
		} else {
			stmt.Stats.Dropped++
		}
		stmt.Trace = append(stmt.Trace, trace)
	}

	if len(stmt.Transactions) == 0 {
		return stmt, ErrNoTransactions
	}
	return stmt, nil
}
