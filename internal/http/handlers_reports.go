package http

import (
	"net/http"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	"github.com/SharathHarish/KExpenseTracker/internal/fx"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
)

type moneyJSON struct {
	Amount string `json:"amount"`
	Cents  int64  `json:"cents"`
}

func toMoneyJSON(m core.Money) moneyJSON {
	return moneyJSON{Amount: m.String(), Cents: m.Cents}
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	month, _, err := queryFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	income, err := s.reports.Total(r.Context(), core.Income, month)
	if err != nil {
		s.reportError(w, r, "totals", err)
		return
	}
	expense, err := s.reports.Total(r.Context(), core.Expense, month)
	if err != nil {
		s.reportError(w, r, "totals", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":   month.String(),
		"income":  toMoneyJSON(income),
		"expense": toMoneyJSON(expense),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	typ, err := core.ParseTxType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	month, _, err := queryFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := s.reports.ByCategory(r.Context(), typ, month)
	if err != nil {
		s.reportError(w, r, "categories", err)
		return
	}

	type categoryJSON struct {
		Category string    `json:"category"`
		Total    moneyJSON `json:"total"`
	}
	out := make([]categoryJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, categoryJSON{Category: g.Name, Total: toMoneyJSON(g.Amount)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":       string(typ),
		"month":      month.String(),
		"categories": out,
	})
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	month, _, err := queryFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, err := s.reports.DailySeries(r.Context(), month)
	if err != nil {
		s.reportError(w, r, "daily series", err)
		return
	}

	type pointJSON struct {
		Date    string    `json:"date"`
		Income  moneyJSON `json:"income"`
		Expense moneyJSON `json:"expense"`
	}
	out := make([]pointJSON, 0, len(series))
	for _, p := range series {
		out = append(out, pointJSON{
			Date:    p.Date.String(),
			Income:  toMoneyJSON(p.Income),
			Expense: toMoneyJSON(p.Expense),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":  month.String(),
		"series": out,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ov, err := s.reports.Overview(r.Context())
	if err != nil {
		s.reportError(w, r, "overview", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"income":  toMoneyJSON(ov.TotalIncome),
		"expense": toMoneyJSON(ov.TotalExpense),
		"health": map[string]any{
			"zone":      string(ov.Health.Zone),
			"diff":      toMoneyJSON(ov.Health.Diff),
			"threshold": toMoneyJSON(ov.Health.Threshold),
		},
	})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	years, err := s.reports.Years(r.Context())
	if err != nil {
		s.reportError(w, r, "years", err)
		return
	}
	if years == nil {
		years = []int{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

// handleTaxonomy serves the suggestion lists the entry form offers. The
// lists are fixed, free-text values remain accepted on create.
func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": map[string][]string{
			string(core.Income):  core.CategorySuggestions(core.Income),
			string(core.Expense): core.CategorySuggestions(core.Expense),
		},
		"payment_methods": core.PaymentMethodSuggestions(),
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	cents, err := core.ParseDecimalToCents(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a positive decimal number")
		return
	}
	from, err := fx.ParseCurrency(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be INR or USD")
		return
	}
	to, err := fx.ParseCurrency(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be INR or USD")
		return
	}

	converted, err := fx.Convert(core.Money{Cents: cents}, from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"from":      string(from),
		"to":        string(to),
		"input":     toMoneyJSON(core.Money{Cents: cents}),
		"converted": toMoneyJSON(converted),
	})
}

func (s *Server) reportError(w http.ResponseWriter, r *http.Request, what string, err error) {
	fields := applog.NewFields().
		WithOperation(applog.OpAggregate).
		WithError(err)
	fields["report"] = what
	s.logger.ErrorContext(r.Context(), "Failed to compute report", fields.ToSlice()...)
	writeError(w, http.StatusInternalServerError, "failed to compute "+what)
}
