package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/pkg/password"
)

// Sessions is the session lifecycle the service depends on. Implemented by
// SessionStore.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// Service handles account registration and session auth
type Service struct {
	users    user.Repository
	sessions Sessions
}

func NewService(users user.Repository, sessions Sessions) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, string, error) {
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, "", fmt.Errorf("parse birth date: %w", err)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		UserID:       user.NewUserID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Newsletter:   req.Newsletter,
		IsActive:     true,
		BirthDate:    birthDate,
	}

	// The email unique constraint decides the race between two concurrent
	// registrations; Create maps it to ErrEmailAlreadyExists.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	created, err := s.users.GetByID(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	if created != nil {
		u = created
	}

	sessionID, err := s.sessions.Create(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, sessionID, nil
}

// Login verifies credentials and opens a session. Unknown email, wrong
// password and deactivated account all report ErrInvalidCredentials so the
// response does not reveal which one it was.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !u.IsActive {
		return nil, "", user.ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, "", user.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, sessionID, nil
}

// Logout ends the session
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves a session to its account. Returns nil, nil when the
// session is unknown, expired or points at a deleted account.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*user.User, error) {
	userID, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}
	return s.users.GetByID(ctx, userID)
}
