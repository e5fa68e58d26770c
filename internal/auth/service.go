package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidRefresh     = errors.New("auth: invalid refresh token")
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	Rotate(ctx context.Context, userID uint64, oldHash, newHash string, exp time.Time) error
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// Pair is what login and refresh hand back.
type Pair struct {
	UserID  uint64       `json:"user_id"`
	Email   string       `json:"email"`
	Access  AccessToken  `json:"access"`
	Refresh RefreshToken `json:"refresh"`
}

// Service implements login, refresh rotation and logout.
type Service struct {
	users  UserStore
	store  TokenStore
	tokens *Tokens
}

func NewService(users UserStore, store TokenStore, tokens *Tokens) *Service {
	return &Service{users: users, store: store, tokens: tokens}
}

// Login checks the password and issues a fresh pair.  Unknown, inactive and
// wrong-password users all get ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Pair{}, ErrInvalidCredentials
	}
	if err != nil {
		return Pair{}, err
	}
	if !u.IsActive || !VerifyPassword(u.PasswordHash, password) {
		return Pair{}, ErrInvalidCredentials
	}
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.tokens.NewRefresh()
	if err != nil {
		return Pair{}, err
	}
	if err := s.store.StoreRefresh(ctx, u.ID, HashRefresh(refresh.Raw), refresh.Exp); err != nil {
		return Pair{}, err
	}
	return Pair{UserID: u.ID, Email: u.Email, Access: access, Refresh: refresh}, nil
}

// Refresh spends raw and returns a new pair.
func (s *Service) Refresh(ctx context.Context, raw string) (Pair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Pair{}, ErrInvalidRefresh
	}
	oldHash := HashRefresh(raw)
	userID, err := s.store.ValidateRefresh(ctx, oldHash)
	if errors.Is(err, repository.ErrTokenInvalid) {
		return Pair{}, ErrInvalidRefresh
	}
	if err != nil {
		return Pair{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Pair{}, ErrInvalidRefresh
	}
	if err != nil {
		return Pair{}, err
	}
	if !u.IsActive {
		return Pair{}, ErrInvalidRefresh
	}

	next, err := s.tokens.NewRefresh()
	if err != nil {
		return Pair{}, err
	}
	if err := s.store.Rotate(ctx, userID, oldHash, HashRefresh(next.Raw), next.Exp); err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return Pair{}, ErrInvalidRefresh
		}
		return Pair{}, err
	}
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Pair{}, err
	}
	return Pair{UserID: u.ID, Email: u.Email, Access: access, Refresh: next}, nil
}

// Logout revokes raw.  An empty token is a no-op.
func (s *Service) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return s.store.RevokeByHash(ctx, HashRefresh(raw))
}
