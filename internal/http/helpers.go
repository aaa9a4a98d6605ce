package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/SharathHarish/KExpenseTracker/internal/engine"
)

// writeJSON encodes v with the standard headers. Encode failures are
// ignored: the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError encodes the uniform error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// methodNotAllowed writes the Allow header and a 405.
func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// queryFilters parses the month/year selector values from the query
// string. Absent values mean "All".
func queryFilters(r *http.Request) (engine.MonthFilter, engine.YearFilter, error) {
	month, err := engine.ParseMonthFilter(r.URL.Query().Get("month"))
	if err != nil {
		return engine.AllMonths, engine.AllYears, fmt.Errorf("month: %w", err)
	}
	year, err := engine.ParseYearFilter(r.URL.Query().Get("year"))
	if err != nil {
		return engine.AllMonths, engine.AllYears, fmt.Errorf("year: %w", err)
	}
	return month, year, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// clientIP extracts the client address without the ephemeral port, used
// as the rate limiter key.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
