package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
)

// transactionJSON is the wire shape of a ledger row. Amounts travel both
// as exact cents and as the display string so clients never re-derive one
// from the other.
type transactionJSON struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Tags          string `json:"tags,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	date := ""
	if !tx.Date.IsZero() {
		date = tx.Date.String()
	}
	return transactionJSON{
		ID:            tx.ID,
		Date:          date,
		Amount:        tx.Amount.String(),
		AmountCents:   tx.Amount.Cents,
		Type:          string(tx.Type),
		Category:      tx.Category,
		PaymentMethod: tx.PaymentMethod,
		Tags:          tx.Tags,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	month, year, err := queryFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.reports.FilteredList(r.Context(), month, year)
	if err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpList).
			WithError(err)
		fields[applog.FieldMonthFilter] = month.String()
		fields[applog.FieldYearFilter] = year.String()
		s.logger.ErrorContext(r.Context(), "Failed to list transactions", fields.ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"count":        len(out),
	})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	date, err := core.ParseDate(parser.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD or DD-MM-YYYY")
		return
	}

	cents, err := core.ParseDecimalToCents(parser.Get("amount"))
	if err != nil || cents <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive decimal number")
		return
	}

	typ, err := core.ParseTxType(parser.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}

	tx := core.Transaction{
		Date:          date,
		Amount:        core.Money{Cents: cents},
		Type:          typ,
		Category:      parser.Get("category"),
		PaymentMethod: parser.Get("payment_method"),
		Tags:          parser.Get("tags"),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.ledger.AddTransaction(r.Context(), tx)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidType) || errors.Is(err, core.ErrEmptyCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fields := applog.NewFields().
			WithOperation(applog.OpCreate).
			WithError(err)
		fields[applog.FieldCategory] = tx.Category
		s.logger.ErrorContext(r.Context(), "Failed to save transaction", fields.ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/transactions/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	// Deletion is idempotent: removing an id that is already gone
	// succeeds the same way as removing a live row.
	if err := s.ledger.RemoveTransaction(r.Context(), id); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpDelete).
			WithError(err)
		fields[applog.FieldTxID] = id
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction", fields.ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
