package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies the offerwall network a reward came from.
type Source string

const (
	SourceTheoremReach Source = "theoremreach"
	SourceTimeWall     Source = "timewall"
	SourceWannads      Source = "wannads"
)

// TypeReward is the only transaction type the postback path writes. Rows
// are immutable once inserted.
const TypeReward = "reward"

// Transaction is one accepted provider reward event. The unique constraint
// on external_transaction_id is what makes postback ingestion idempotent;
// there is deliberately no existence pre-check anywhere.
type Transaction struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	UserID                string    `db:"user_id" json:"user_id"`
	ExternalTransactionID string    `db:"external_transaction_id" json:"external_transaction_id"`
	AmountCents           int64     `db:"amount_cents" json:"amount_cents"`
	Type                  string    `db:"type" json:"type"`
	Source                Source    `db:"source" json:"source"`
	Description           string    `db:"description" json:"description"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// CreditRequest describes one reward to record and apply.
type CreditRequest struct {
	UserID                string
	ExternalTransactionID string
	AmountCents           int64
	Source                Source
	Description           string
}

// CreditResult reports what one Credit call did. When Duplicate is true the
// snapshot fields are zero: the call changed nothing and read nothing back.
type CreditResult struct {
	Duplicate       bool
	TransactionID   uuid.UUID
	BalanceCents    int64
	TotalEarned     int64
	CompletedOffers int
}
