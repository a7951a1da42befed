package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/taskdeck/internal/domain"
	"github.com/msomdec/taskdeck/internal/repository/sqlite"
	"github.com/msomdec/taskdeck/internal/service"
)

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testAccessSecret, testRefreshSecret)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), tokens, service.NewHasher(4))
	return auth, db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, "new@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if session.User.ID == "" {
		t.Fatal("expected user ID to be set")
	}
	if session.User.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", session.User.Email)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, "  New.User@Example.COM ", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Email != "new.user@example.com" {
		t.Fatalf("expected normalized email, got %s", session.User.Email)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "dup@example.com", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	// A case/whitespace variant of the same address is still a duplicate.
	_, err := auth.Register(ctx, " DUP@Example.com ", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"whitespace email", "   ", "password123"},
		{"empty password", "a@b.com", ""},
		{"short password", "a@b.com", "short"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "login@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	session, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}
}

func TestAuthService_Login_NormalizesEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "A@B.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, " a@b.com ", "password123"); err != nil {
		t.Fatalf("Login with case/whitespace variant: %v", err)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "real@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := auth.Login(ctx, "nonexistent@example.com", "anything")
	_, errWrongPw := auth.Login(ctx, "real@example.com", "wrongpassword")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestAuthService_Refresh_Rotation(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "rotate@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, err := auth.Login(ctx, "rotate@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := auth.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected refresh to rotate to a new token")
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected same user, got %s vs %s", second.User.ID, first.User.ID)
	}

	// The consumed token is single-use: replaying it must fail.
	if _, err := auth.Refresh(ctx, first.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials replaying rotated token, got %v", err)
	}

	// The rotated token is the one valid session.
	if _, err := auth.Refresh(ctx, second.RefreshToken); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}
}

// Registration persists the refresh digest, so a freshly registered
// account's first refresh token is immediately usable. The upstream
// behavior this service was modeled on stored the digest only inside the
// refresh workflow itself, which left the stored hash forever empty and
// the refresh endpoint unusable; issuance-side persistence closes that gap.
func TestAuthService_Refresh_AfterRegister(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, "fresh@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Refresh(ctx, session.RefreshToken); err != nil {
		t.Fatalf("Refresh with registration token: %v", err)
	}
}

func TestAuthService_Refresh_LoginInvalidatesPriorSession(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "single@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	first, err := auth.Login(ctx, "single@example.com", "password123")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	if _, err := auth.Login(ctx, "single@example.com", "password123"); err != nil {
		t.Fatalf("second Login: %v", err)
	}

	// One stored digest per account: the second login overwrote it.
	if _, err := auth.Refresh(ctx, first.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for superseded session, got %v", err)
	}
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, "badtoken@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
		// An access token is signed with the wrong secret for refresh.
		{"access token", session.AccessToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := auth.Refresh(ctx, tc.token); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, "logout@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := auth.Logout(ctx, session.User.ID); err != nil {
		t.Fatalf("first Logout: %v", err)
	}
	if err := auth.Logout(ctx, session.User.ID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}

	creds, err := db.Users().GetByIDWithRefreshHash(ctx, session.User.ID)
	if err != nil {
		t.Fatalf("GetByIDWithRefreshHash: %v", err)
	}
	if creds.RefreshTokenHash != nil {
		t.Fatal("expected no stored refresh hash after logout")
	}

	// The revoked session's refresh token is dead.
	if _, err := auth.Refresh(ctx, session.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after logout, got %v", err)
	}
}
