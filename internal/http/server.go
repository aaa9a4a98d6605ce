// Package http exposes the ledger and its derived views over a local JSON
// API. Handlers are presentation glue only: they parse selector inputs,
// call the store or the aggregation engine, and encode the result.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	"github.com/SharathHarish/KExpenseTracker/internal/engine"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
	"github.com/SharathHarish/KExpenseTracker/internal/middleware/ratelimit"
)

type (
	// Ledger is the mutating port handlers write through.
	Ledger interface {
		AddTransaction(ctx context.Context, tx core.Transaction) (int64, error)
		RemoveTransaction(ctx context.Context, id int64) error
	}

	// Reports is the aggregation engine surface the reporting handlers read.
	Reports interface {
		Total(ctx context.Context, typ core.TxType, month engine.MonthFilter) (core.Money, error)
		ByCategory(ctx context.Context, typ core.TxType, month engine.MonthFilter) ([]engine.CategoryAmount, error)
		DailySeries(ctx context.Context, month engine.MonthFilter) ([]engine.DailyPoint, error)
		FilteredList(ctx context.Context, month engine.MonthFilter, year engine.YearFilter) ([]core.Transaction, error)
		Years(ctx context.Context) ([]int, error)
		Overview(ctx context.Context) (engine.Overview, error)
	}
)

type Server struct {
	http.Server

	ledger  Ledger
	reports Reports
	logger  *applog.Logger
	limiter *ratelimit.Limiter
}

func NewServer(addr string, ledger Ledger, reports Reports, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	s := &Server{
		ledger:  ledger,
		reports: reports,
		logger:  logger,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/reports/totals", s.handleTotals)
	mux.HandleFunc("/reports/categories", s.handleCategories)
	mux.HandleFunc("/reports/daily", s.handleDailySeries)
	mux.HandleFunc("/reports/overview", s.handleOverview)
	mux.HandleFunc("/reports/years", s.handleYears)
	mux.HandleFunc("/taxonomy", s.handleTaxonomy)
	mux.HandleFunc("/convert", s.handleConvert)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleHealth)

	limited := s.limiter.Middleware(clientIP, s.onRateLimited)(mux)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.withRequestLog(limited),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Request rate limited",
		applog.FieldClientIP, clientIP(r),
		applog.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withRequestLog wraps the mux with request tracing: a generated request
// id, a start record, and a completion record whose level tracks the
// response status.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		s.logger.DebugContext(r.Context(), "HTTP request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldQuery, r.URL.RawQuery)

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		fields := applog.NewFields()
		fields[applog.FieldRequestID] = requestID
		fields[applog.FieldMethod] = r.Method
		fields[applog.FieldPath] = r.URL.Path
		fields[applog.FieldClientIP] = clientIP(r)
		fields[applog.FieldStatusCode] = rw.status
		fields[applog.FieldDuration] = time.Since(start).Milliseconds()
		fields[applog.FieldSuccess] = rw.status < 400
		args := fields.ToSlice()
		switch {
		case rw.status >= 500:
			s.logger.ErrorContext(r.Context(), "HTTP request completed", args...)
		case rw.status >= 400:
			s.logger.WarnContext(r.Context(), "HTTP request completed", args...)
		default:
			s.logger.InfoContext(r.Context(), "HTTP request completed", args...)
		}
	})
}

// statusWriter captures the response status for the completion log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
