package engine

import "github.com/SharathHarish/KExpenseTracker/internal/core"

const (
	ZoneOverspent   Zone = "overspent"
	ZoneModerate    Zone = "moderate"
	ZoneGoodSavings Zone = "good savings"
)

type (
	// Zone is the three-valued classification of the income/expense gap,
	// used purely for display guidance.
	Zone string

	// ZoneResult carries the classification together with the threshold
	// it was judged against, so the display layer can explain it.
	ZoneResult struct {
		Zone      Zone
		Diff      core.Money
		Threshold core.Money // half of total income
	}
)

// HealthZone classifies the gap between total income and total expense.
// Savings of at least half the income are good; a negative gap is
// overspent; anything between is moderate. A ledger with zero income and
// zero expense classifies as moderate: with no income the threshold is
// undefined, and moderate is the least surprising default.
func HealthZone(income, expense core.Money) ZoneResult {
	diff := income.Sub(expense)
	threshold := core.Money{Cents: income.Cents / 2}

	res := ZoneResult{Diff: diff, Threshold: threshold}
	switch {
	case diff.Cents < 0:
		res.Zone = ZoneOverspent
	// Compared doubled to avoid losing the half cent of an odd income.
	case income.Cents > 0 && 2*diff.Cents >= income.Cents:
		res.Zone = ZoneGoodSavings
	default:
		res.Zone = ZoneModerate
	}
	return res
}
