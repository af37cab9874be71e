package auth

import (
	"time"

	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
)

// RegisterRequest represents registration payload
type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=1,max=100"`
	LastName   string `json:"lastName" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	BirthDate  string `json:"birthDate" validate:"required,birthdate"`
	Newsletter bool   `json:"newsletter"`
}

// LoginRequest represents login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse is the account view returned by auth and dashboard
// endpoints. Money fields are formatted dollar strings.
type ProfileResponse struct {
	UserID          string    `json:"user_id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Balance         string    `json:"balance"`
	TotalEarned     string    `json:"total_earned"`
	CompletedOffers int       `json:"completed_offers"`
	Newsletter      bool      `json:"newsletter"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewProfileResponse builds the public account view from a stored user.
func NewProfileResponse(u *user.User) ProfileResponse {
	return ProfileResponse{
		UserID:          u.UserID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Balance:         money.FormatCents(u.BalanceCents),
		TotalEarned:     money.FormatCents(u.TotalEarnedCents),
		CompletedOffers: u.CompletedOffers,
		Newsletter:      u.Newsletter,
		CreatedAt:       u.CreatedAt,
	}
}
