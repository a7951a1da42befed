package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/taskdeck/internal/domain"
)

const (
	// AccessTokenTTL is the lifetime of an access token.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the lifetime of a refresh token and of the cookie
	// that carries it.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPair is one issuance of access and refresh tokens. It is ephemeral;
// only the refresh token's digest is ever persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims is the verified payload of either token class.
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenService issues and verifies signed access/refresh token pairs. The
// two classes are signed with distinct secrets so that compromising one
// cannot forge the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewTokenService creates a TokenService from the two signing secrets.
// Secrets come from startup configuration; missing secrets abort startup
// before this constructor is ever reached.
func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

type signedClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssuePair signs a fresh access/refresh token pair carrying the user's
// identity in both payloads.
func (s *TokenService) IssuePair(userID, email string) (TokenPair, error) {
	access, err := s.sign(userID, email, s.accessSecret, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.sign(userID, email, s.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates a token against the access secret.
func (s *TokenService) VerifyAccess(token string) (*TokenClaims, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh validates a token against the refresh secret.
func (s *TokenService) VerifyRefresh(token string) (*TokenClaims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := signedClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			// The timestamps have whole-second resolution, so without a
			// unique ID two issuances for the same user within one second
			// would sign byte-identical tokens and rotation would hand the
			// consumed refresh token straight back.
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &signedClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*signedClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	return &TokenClaims{UserID: claims.Subject, Email: claims.Email}, nil
}
