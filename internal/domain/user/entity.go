package user

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// User represents a rewards site account. Money columns are integer cents;
// balance only moves through the ledger credit path and withdrawals, while
// total_earned_cents and completed_offers are monotonically non-decreasing
// counters maintained by the same credit path.
type User struct {
	UserID           string    `db:"user_id" json:"user_id"`
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         string    `db:"last_name" json:"lastName"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	BalanceCents     int64     `db:"balance_cents" json:"-"`
	TotalEarnedCents int64     `db:"total_earned_cents" json:"-"`
	CompletedOffers  int       `db:"completed_offers" json:"completed_offers"`
	Newsletter       bool      `db:"newsletter" json:"newsletter"`
	IsActive         bool      `db:"is_active" json:"-"`
	BirthDate        time.Time `db:"birth_date" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

// NewUserID generates an external user identifier in the format the
// offerwall integrations are configured with: user_<unix>_<hex>.
func NewUserID() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "user_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + hex.EncodeToString(buf)
}
