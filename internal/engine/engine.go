// Package engine implements the aggregation and filtering query layer:
// pure, stateless transformations from the ledger into the derived views
// the reporting surfaces consume. Every function tolerates an empty ledger
// and returns a well-defined zero-value result instead of failing; rows
// whose stored date matches neither accepted form are excluded from
// date-keyed aggregates only, and logged rather than treated as errors.
package engine

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
)

// Ledger is the store port the engine reads from. It is injected
// explicitly so tests can substitute in-memory fixtures.
type Ledger interface {
	// ListAll returns every transaction ordered by date descending,
	// ties broken most-recently-inserted first.
	ListAll(ctx context.Context) ([]core.Transaction, error)
}

type (
	// CategoryAmount is an amount aggregated by category name.
	CategoryAmount struct {
		Name   string
		Amount core.Money
	}

	// DailyPoint is one entry of the income/expense time series: the
	// per-type sums for a single calendar date. A date with transactions
	// of only one type has the other total as zero.
	DailyPoint struct {
		Date    core.Date
		Income  core.Money
		Expense core.Money
	}
)

// Engine computes derived views over an injected Ledger. It holds no
// state of its own: every call re-reads the store, so a mutation followed
// by a re-query never observes stale data.
type Engine struct {
	ledger Ledger
}

func New(ledger Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Total sums the amounts of all transactions of the given type, optionally
// restricted to a calendar month across all years. No matching rows is a
// zero total, not an error. When the filter is disabled no date parsing
// happens, so rows with malformed stored dates still count; with a month
// filter active such rows cannot be assigned a month and are skipped.
func (e *Engine) Total(ctx context.Context, typ core.TxType, month MonthFilter) (core.Money, error) {
	txs, err := e.ledger.ListAll(ctx)
	if err != nil {
		return core.Money{}, err
	}

	var total core.Money
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		if !month.All() && (tx.Date.IsZero() || !month.Matches(tx.Date.Month())) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total, nil
}

// ByCategory groups matching transactions by category and sums per group.
// Result order is first appearance while iterating the ledger in its
// stored order; categories with no matching transactions are omitted.
func (e *Engine) ByCategory(ctx context.Context, typ core.TxType, month MonthFilter) ([]CategoryAmount, error) {
	txs, err := e.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []CategoryAmount
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		if !month.All() && (tx.Date.IsZero() || !month.Matches(tx.Date.Month())) {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	return out, nil
}

// DailySeries returns one point per distinct calendar date present in the
// (optionally month-filtered) ledger, sorted ascending by date.
func (e *Engine) DailySeries(ctx context.Context, month MonthFilter) ([]DailyPoint, error) {
	txs, err := e.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []DailyPoint
	for _, tx := range txs {
		if err := tx.Date.Validate(); err != nil {
			// Tolerance policy: a row whose date never parsed is excluded
			// from date-keyed aggregates, never fatal.
			fields := applog.NewFields().
				WithComponent(applog.ComponentEngine).
				WithOperation(applog.OpParse)
			fields[applog.FieldTxID] = tx.ID
			fields[applog.FieldCategory] = tx.Category
			slog.WarnContext(ctx, "Skipping transaction with unparseable date", fields.ToSlice()...)
			continue
		}
		if !month.All() && !month.Matches(tx.Date.Month()) {
			continue
		}
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DailyPoint{Date: tx.Date})
		}
		switch tx.Type {
		case core.Income:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case core.Expense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

// FilteredList returns transactions matching both filter axes, in the
// ledger's stored order (date descending, most recent first).
func (e *Engine) FilteredList(ctx context.Context, month MonthFilter, year YearFilter) ([]core.Transaction, error) {
	txs, err := e.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if month.All() && year.All() {
		return txs, nil
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if !month.Matches(tx.Date.Month()) || !year.Matches(tx.Date.Year()) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// Years returns the distinct calendar years observed in the ledger,
// descending, for the reporting panel's year selector.
func (e *Engine) Years(ctx context.Context) ([]int, error) {
	txs, err := e.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var years []int
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		y := tx.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Overview bundles the aggregates the reporting panel always renders
// together: overall income and expense totals and the health zone.
type Overview struct {
	TotalIncome  core.Money
	TotalExpense core.Money
	Health       ZoneResult
}

func (e *Engine) Overview(ctx context.Context) (Overview, error) {
	income, err := e.Total(ctx, core.Income, AllMonths)
	if err != nil {
		return Overview{}, err
	}
	expense, err := e.Total(ctx, core.Expense, AllMonths)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		TotalIncome:  income,
		TotalExpense: expense,
		Health:       HealthZone(income, expense),
	}, nil
}
