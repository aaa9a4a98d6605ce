package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the ledger store: durable CRUD over the transactions
// table, no business rules beyond the schema. AUTOINCREMENT guarantees ids
// are never reused after deletion.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert appends a transaction and returns the assigned id. The
// transaction is validated first, so a rejected input never reaches the
// table; the date is written in its canonical form.
func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (txn_date, amount_cents, txn_type, category, payment_method, tags)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Amount.Cents, string(tx.Type), tx.Category, tx.PaymentMethod, tx.Tags)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		applog.NewFields().
			WithComponent(applog.ComponentStorage).
			WithOperation(applog.OpCreate).
			WithTransaction(id, tx.Date.String(), tx.Amount.Cents, string(tx.Type), tx.Category).
			ToSlice()...)

	return id, nil
}

// ListAll returns every transaction ordered by date descending, ties
// broken by insertion order with the most recently inserted row first.
// Rows whose stored date text no longer parses are returned with a zero
// date; the aggregation layer decides whether that excludes them.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, txn_date, amount_cents, txn_type, category, payment_method, tags
		 FROM transactions
		 ORDER BY txn_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			rawDate string
			rawType string
		)
		if err := rows.Scan(&tx.ID, &rawDate, &tx.Amount.Cents, &rawType, &tx.Category, &tx.PaymentMethod, &tx.Tags); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		if d, err := core.ParseDate(rawDate); err == nil {
			tx.Date = d
		} else {
			fields := applog.NewFields().
				WithComponent(applog.ComponentStorage).
				WithOperation(applog.OpList)
			fields[applog.FieldTxID] = tx.ID
			fields[applog.FieldTxDate] = rawDate
			slog.WarnContext(ctx, "Stored transaction date is unparseable", fields.ToSlice()...)
		}

		typ, err := core.ParseTxType(rawType)
		if err != nil {
			return nil, fmt.Errorf("stored transaction %d has type %q: %w", tx.ID, rawType, err)
		}
		tx.Type = typ

		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Delete removes the transaction with the given id. A missing id is a
// no-op, not an error, so deletes stay idempotent under UI races.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	fields := applog.NewFields().
		WithComponent(applog.ComponentStorage).
		WithOperation(applog.OpDelete)
	fields[applog.FieldTxID] = id

	if affected == 0 {
		slog.DebugContext(ctx, "Delete of missing transaction ignored", fields.ToSlice()...)
		return nil
	}

	slog.InfoContext(ctx, "Transaction deleted", fields.ToSlice()...)
	return nil
}

// Count returns the number of persisted transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
