package postback

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// LogEntry is one row of the append-only postback forensics log. It is
// written after the terminal outcome is known, outside the credit
// transaction, and is strictly best-effort.
type LogEntry struct {
	UserID       string `db:"user_id"`
	Source       string `db:"source"`
	ExternalTxID string `db:"external_transaction_id"`
	AmountCents  int64  `db:"amount_cents"`
	IPAddress    string `db:"ip_address"`
	Outcome      string `db:"outcome"`
	RawQuery     string `db:"raw_query"`
}

// RequestLogger appends postback forensics entries.
type RequestLogger interface {
	Append(ctx context.Context, entry LogEntry) error
}

// LogRepository persists the forensics log in Postgres.
type LogRepository struct {
	db *sqlx.DB
}

func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Append(ctx context.Context, entry LogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO postback_logs (user_id, source, external_transaction_id, amount_cents, ip_address, outcome, raw_query, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, entry.UserID, entry.Source, entry.ExternalTxID, entry.AmountCents, entry.IPAddress, entry.Outcome, entry.RawQuery)
	return err
}
