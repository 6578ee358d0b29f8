package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the placeholder syntax of the SQL ledger queries.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// SQLLedgerRepository stores the notification ledger in PostgreSQL or SQLite.
type SQLLedgerRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewPostgresLedgerRepository(db *sql.DB) *SQLLedgerRepository {
	return &SQLLedgerRepository{db: db, dialect: DialectPostgres}
}

func NewSQLiteLedgerRepository(db *sql.DB) *SQLLedgerRepository {
	return &SQLLedgerRepository{db: db, dialect: DialectSQLite}
}

func (r *SQLLedgerRepository) arg(n int) string {
	if r.dialect == DialectSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (r *SQLLedgerRepository) LastNotified(ctx context.Context, userID string) (string, bool, error) {
	query := `SELECT last_notified_date FROM notification_ledger WHERE user_id = ` + r.arg(1)
	var date string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&date)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error reading ledger entry: %w", err)
	}
	return date, true, nil
}

func (r *SQLLedgerRepository) MarkNotified(ctx context.Context, userID, date string) error {
	query := `INSERT INTO notification_ledger (user_id, last_notified_date, updated_at)
               VALUES (` + r.arg(1) + `, ` + r.arg(2) + `, CURRENT_TIMESTAMP)
               ON CONFLICT (user_id) DO UPDATE
               SET last_notified_date = excluded.last_notified_date, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("error writing ledger entry: %w", err)
	}
	return nil
}

func (r *SQLLedgerRepository) PruneBefore(ctx context.Context, date string) (int64, error) {
	query := `DELETE FROM notification_ledger WHERE last_notified_date < ` + r.arg(1)
	res, err := r.db.ExecContext(ctx, query, date)
	if err != nil {
		return 0, fmt.Errorf("error pruning ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting pruned ledger entries: %w", err)
	}
	return n, nil
}
