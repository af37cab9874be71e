package ledger

import "errors"

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrUserNotFound  = errors.New("user not found")
	ErrStorage       = errors.New("ledger storage failure")
)
