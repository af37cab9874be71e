package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository persists reward transactions and applies the matching balance
// credit in the same database transaction.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Credit records a provider transaction exactly once and, if this call was
// the one that created it, applies the credit to the user's counters.
//
// The insert is attempted unconditionally; the unique constraint on
// external_transaction_id is the only deduplication mechanism, so two
// concurrent deliveries of the same transaction race at the database and
// exactly one wins. The losing call commits nothing and reports Duplicate.
// The balance update is a relative increment, never read-modify-write, so
// concurrent credits to the same user from different transactions cannot
// lose updates.
func (r *Repository) Credit(ctx context.Context, req CreditRequest) (*CreditResult, error) {
	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if err := r.checkUserExists(ctx, tx, req.UserID); err != nil {
		return nil, err
	}

	txID, created, err := r.insertTransaction(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	if !created {
		// Duplicate delivery: nothing changed, commit the no-op so the
		// response can promise the provider it is safe to stop retrying.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%w: commit: %v", ErrStorage, err)
		}
		return &CreditResult{Duplicate: true}, nil
	}

	result, err := r.applyCredit(ctx, tx, req.UserID, req.AmountCents)
	if err != nil {
		return nil, err
	}
	result.TransactionID = txID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}
	return result, nil
}

func (r *Repository) checkUserExists(ctx context.Context, tx *sqlx.Tx, userID string) error {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID)
	if err != nil {
		return fmt.Errorf("%w: user lookup: %v", ErrStorage, err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// insertTransaction attempts the ledger insert. A unique violation on
// external_transaction_id reports created=false; every other error is a
// hard storage failure.
func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, req CreditRequest) (uuid.UUID, bool, error) {
	id := uuid.New()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, external_transaction_id, amount_cents, type, source, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, id, req.UserID, req.ExternalTransactionID, req.AmountCents, TypeReward, string(req.Source), req.Description)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("%w: insert transaction: %v", ErrStorage, err)
	}
	return id, true, nil
}

// applyCredit bumps the user's aggregate counters and returns the updated
// snapshot.
func (r *Repository) applyCredit(ctx context.Context, tx *sqlx.Tx, userID string, amountCents int64) (*CreditResult, error) {
	var result CreditResult
	err := tx.QueryRowxContext(ctx, `
		UPDATE users
		SET balance_cents = balance_cents + $2,
		    total_earned_cents = total_earned_cents + $2,
		    completed_offers = completed_offers + 1,
		    updated_at = now()
		WHERE user_id = $1
		RETURNING balance_cents, total_earned_cents, completed_offers
	`, userID, amountCents).Scan(&result.BalanceCents, &result.TotalEarned, &result.CompletedOffers)
	if err != nil {
		return nil, fmt.Errorf("%w: apply credit: %v", ErrStorage, err)
	}
	return &result, nil
}

// GetByExternalID returns a transaction by provider-assigned ID, or nil
// when absent.
func (r *Repository) GetByExternalID(ctx context.Context, externalTxID string) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t, `
		SELECT id, user_id, external_transaction_id, amount_cents, type, source, description, created_at
		FROM transactions
		WHERE external_transaction_id = $1
	`, externalTxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns a user's most recent transactions for the dashboard.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error) {
	transactions := []Transaction{}
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, user_id, external_transaction_id, amount_cents, type, source, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
