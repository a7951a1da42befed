package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/taskdeck/internal/domain"
)

// dummyPasswordHash is compared against when login hits an unknown email,
// keeping that path's latency close to a real bcrypt check.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates registration, login, refresh rotation, and
// logout. Per account there is at most one valid refresh token: every
// issuance overwrites the single stored digest, which invalidates any
// refresh token issued earlier.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenService
	hasher *Hasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, hasher *Hasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher}
}

// Session is the result of a successful register, login, or refresh.
type Session struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register creates a new account and opens its first session.
// Returns domain.ErrDuplicateEmail if the normalized email is taken and
// domain.ErrInvalidInput for malformed input.
func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	// Pre-check before the expensive hash; the unique constraint on insert
	// still catches a concurrent registration of the same address.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	passwordHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password surface the same domain.ErrInvalidCredentials; neither the
// message nor the timing distinguishes the two.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	creds, err := s.users.GetByEmailWithPassword(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.CheckPassword(password, dummyPasswordHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.CheckPassword(password, creds.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, &creds.User)
}

// Refresh exchanges a valid refresh token for a new token pair, rotating
// the stored digest so the presented token cannot be used again. Every
// validation failure surfaces as domain.ErrInvalidCredentials.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	creds, err := s.users.GetByIDWithRefreshHash(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if creds.RefreshTokenHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.CheckToken(refreshToken, *creds.RefreshTokenHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, &creds.User)
}

// Logout revokes the account's active session by clearing the stored
// refresh digest. Calling it with no active session is a no-op success.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear refresh token hash: %w", err)
	}
	return nil
}

// openSession issues a token pair and persists the refresh digest, making
// the new refresh token the account's single valid one. Concurrent calls
// for the same user race at the store; the last write wins.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*Session, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshHash, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &refreshHash); err != nil {
		return nil, fmt.Errorf("store refresh token hash: %w", err)
	}

	return &Session{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique constraint are case- and whitespace-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
