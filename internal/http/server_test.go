package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	"github.com/SharathHarish/KExpenseTracker/internal/engine"
)

type fakeLedger struct {
	added     []core.Transaction
	removed   []int64
	nextID    int64
	addErr    error
	removeErr error
}

func (f *fakeLedger) AddTransaction(_ context.Context, tx core.Transaction) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.nextID++
	tx.ID = f.nextID
	f.added = append(f.added, tx)
	return f.nextID, nil
}

func (f *fakeLedger) RemoveTransaction(_ context.Context, id int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	return nil
}

// fakeReports serves canned views so handler behavior can be tested
// without a store behind it.
type fakeReports struct {
	txs []core.Transaction
	err error
}

func (f *fakeReports) ListAll(context.Context) ([]core.Transaction, error) {
	return f.txs, f.err
}

func (f *fakeReports) Total(ctx context.Context, typ core.TxType, month engine.MonthFilter) (core.Money, error) {
	if f.err != nil {
		return core.Money{}, f.err
	}
	return engine.New(f).Total(ctx, typ, month)
}

func (f *fakeReports) ByCategory(ctx context.Context, typ core.TxType, month engine.MonthFilter) ([]engine.CategoryAmount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return engine.New(f).ByCategory(ctx, typ, month)
}

func (f *fakeReports) DailySeries(ctx context.Context, month engine.MonthFilter) ([]engine.DailyPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return engine.New(f).DailySeries(ctx, month)
}

func (f *fakeReports) FilteredList(ctx context.Context, month engine.MonthFilter, year engine.YearFilter) ([]core.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return engine.New(f).FilteredList(ctx, month, year)
}

func (f *fakeReports) Years(ctx context.Context) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return engine.New(f).Years(ctx)
}

func (f *fakeReports) Overview(ctx context.Context) (engine.Overview, error) {
	if f.err != nil {
		return engine.Overview{}, f.err
	}
	return engine.New(f).Overview(ctx)
}

func testTx(id int64, date core.Date, cents int64, typ core.TxType, category string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Date:     date,
		Amount:   core.Money{Cents: cents},
		Type:     typ,
		Category: category,
	}
}

func newTestServer(ledger *fakeLedger, reports *fakeReports) *Server {
	return NewServer(":0", ledger, reports, nil)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		if strings.HasPrefix(body, "{") {
			req.Header.Set("Content-Type", "application/json")
		} else {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestCreateTransaction_JSON(t *testing.T) {
	ledger := &fakeLedger{}
	s := newTestServer(ledger, &fakeReports{})

	body := `{"date":"2024-01-15","amount":"123.45","type":"expense","category":"Food","payment_method":"UPI"}`
	rec := doRequest(t, s, http.MethodPost, "/transactions", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ledger.added) != 1 {
		t.Fatalf("expected one stored transaction, got %d", len(ledger.added))
	}
	stored := ledger.added[0]
	if stored.Amount.Cents != 12345 {
		t.Errorf("expected 12345 cents, got %d", stored.Amount.Cents)
	}
	if stored.Type != core.Expense {
		t.Errorf("expected expense, got %s", stored.Type)
	}
	if stored.Date.String() != "2024-01-15" {
		t.Errorf("expected date 2024-01-15, got %s", stored.Date.String())
	}

	resp := decodeBody(t, rec)
	if resp["id"].(float64) != 1 {
		t.Errorf("expected id 1 in response, got %v", resp["id"])
	}
}

func TestCreateTransaction_Form(t *testing.T) {
	ledger := &fakeLedger{}
	s := newTestServer(ledger, &fakeReports{})

	body := "date=15-01-2024&amount=50%2C00&type=INCOME&category=Salary"
	rec := doRequest(t, s, http.MethodPost, "/transactions", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	stored := ledger.added[0]
	if stored.Date.String() != "2024-01-15" {
		t.Errorf("day-first date not normalized, got %s", stored.Date.String())
	}
	if stored.Amount.Cents != 5000 {
		t.Errorf("comma decimal not parsed, got %d cents", stored.Amount.Cents)
	}
	if stored.Type != core.Income {
		t.Errorf("type not normalized, got %s", stored.Type)
	}
}

func TestCreateTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"date":"jan 5","amount":"10","type":"income","category":"Salary"}`},
		{"zero amount", `{"date":"2024-01-05","amount":"0","type":"income","category":"Salary"}`},
		{"negative amount", `{"date":"2024-01-05","amount":"-5","type":"income","category":"Salary"}`},
		{"bad type", `{"date":"2024-01-05","amount":"10","type":"transfer","category":"Salary"}`},
		{"empty category", `{"date":"2024-01-05","amount":"10","type":"income","category":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			s := newTestServer(ledger, &fakeReports{})
			rec := doRequest(t, s, http.MethodPost, "/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if len(ledger.added) != 0 {
				t.Errorf("invalid input must not reach the store")
			}
		})
	}
}

func TestListTransactions_Filters(t *testing.T) {
	reports := &fakeReports{txs: []core.Transaction{
		testTx(3, core.NewDate(2024, 2, 10), 1000, core.Expense, "Food"),
		testTx(2, core.NewDate(2024, 1, 20), 2000, core.Income, "Salary"),
		testTx(1, core.NewDate(2023, 1, 5), 3000, core.Expense, "Transport"),
	}}
	s := newTestServer(&fakeLedger{}, reports)

	rec := doRequest(t, s, http.MethodGet, "/transactions?month=January&year=2024", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	if resp["count"].(float64) != 1 {
		t.Fatalf("expected one match, got %v", resp["count"])
	}
	list := resp["transactions"].([]any)
	first := list[0].(map[string]any)
	if first["category"] != "Salary" {
		t.Errorf("expected Salary row, got %v", first["category"])
	}
}

func TestListTransactions_BadMonth(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/transactions?month=13", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for month=13, got %d", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	ledger := &fakeLedger{}
	s := newTestServer(ledger, &fakeReports{})

	rec := doRequest(t, s, http.MethodDelete, "/transactions/42", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(ledger.removed) != 1 || ledger.removed[0] != 42 {
		t.Errorf("expected delete of id 42, got %v", ledger.removed)
	}
}

func TestDeleteTransaction_BadID(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	for _, target := range []string{"/transactions/abc", "/transactions/0", "/transactions/-3"} {
		rec := doRequest(t, s, http.MethodDelete, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestTotals(t *testing.T) {
	reports := &fakeReports{txs: []core.Transaction{
		testTx(1, core.NewDate(2024, 1, 5), 10000, core.Income, "Salary"),
		testTx(2, core.NewDate(2024, 1, 7), 2500, core.Expense, "Food"),
		testTx(3, core.NewDate(2024, 2, 1), 4000, core.Expense, "Transport"),
	}}
	s := newTestServer(&fakeLedger{}, reports)

	rec := doRequest(t, s, http.MethodGet, "/reports/totals?month=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	income := resp["income"].(map[string]any)
	expense := resp["expense"].(map[string]any)
	if income["cents"].(float64) != 10000 {
		t.Errorf("expected income 10000 cents, got %v", income["cents"])
	}
	if expense["cents"].(float64) != 2500 {
		t.Errorf("expected expense 2500 cents, got %v", expense["cents"])
	}
}

func TestCategories(t *testing.T) {
	reports := &fakeReports{txs: []core.Transaction{
		testTx(1, core.NewDate(2024, 1, 5), 1000, core.Expense, "Food"),
		testTx(2, core.NewDate(2024, 1, 6), 2000, core.Expense, "Transport"),
		testTx(3, core.NewDate(2024, 1, 7), 500, core.Expense, "Food"),
	}}
	s := newTestServer(&fakeLedger{}, reports)

	rec := doRequest(t, s, http.MethodGet, "/reports/categories?type=expense", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	cats := resp["categories"].([]any)
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	first := cats[0].(map[string]any)
	if first["category"] != "Food" {
		t.Errorf("expected first-seen category Food, got %v", first["category"])
	}
	if first["total"].(map[string]any)["cents"].(float64) != 1500 {
		t.Errorf("expected Food total 1500 cents, got %v", first["total"])
	}
}

func TestCategories_RequiresType(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/reports/categories", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without type, got %d", rec.Code)
	}
}

func TestDailySeries(t *testing.T) {
	reports := &fakeReports{txs: []core.Transaction{
		testTx(2, core.NewDate(2024, 1, 7), 2500, core.Expense, "Food"),
		testTx(1, core.NewDate(2024, 1, 5), 10000, core.Income, "Salary"),
	}}
	s := newTestServer(&fakeLedger{}, reports)

	rec := doRequest(t, s, http.MethodGet, "/reports/daily", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	series := resp["series"].([]any)
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	first := series[0].(map[string]any)
	if first["date"] != "2024-01-05" {
		t.Errorf("series must be ascending, first point %v", first["date"])
	}
}

func TestOverview(t *testing.T) {
	reports := &fakeReports{txs: []core.Transaction{
		testTx(1, core.NewDate(2024, 1, 5), 10000, core.Income, "Salary"),
		testTx(2, core.NewDate(2024, 1, 7), 2500, core.Expense, "Food"),
	}}
	s := newTestServer(&fakeLedger{}, reports)

	rec := doRequest(t, s, http.MethodGet, "/reports/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	health := resp["health"].(map[string]any)
	if health["zone"] != "good savings" {
		t.Errorf("expected good savings zone, got %v", health["zone"])
	}
}

func TestYears_Empty(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/reports/years", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if len(resp["years"].([]any)) != 0 {
		t.Errorf("expected empty years list, got %v", resp["years"])
	}
}

func TestTaxonomy(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/taxonomy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	cats := resp["categories"].(map[string]any)
	if len(cats["income"].([]any)) == 0 || len(cats["expense"].([]any)) == 0 {
		t.Errorf("expected non-empty suggestion lists, got %v", cats)
	}
}

func TestConvert(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/convert?amount=10&from=USD&to=INR", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	converted := resp["converted"].(map[string]any)
	if converted["cents"].(float64) != 91000 {
		t.Errorf("expected 91000 cents (910.00 INR), got %v", converted["cents"])
	}
}

func TestConvert_UnknownCurrency(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodGet, "/convert?amount=10&from=EUR&to=INR", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown currency, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	rec := doRequest(t, s, http.MethodPut, "/transactions", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Errorf("expected Allow header to list POST, got %q", allow)
	}
}

func TestStoreFailure(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{err: errors.New("disk gone")})
	rec := doRequest(t, s, http.MethodGet, "/reports/totals", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["error"] == "" {
		t.Errorf("expected error body")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&fakeLedger{}, &fakeReports{})
	for _, target := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, rec.Code)
		}
	}
}
