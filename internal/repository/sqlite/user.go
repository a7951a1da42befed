package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/taskdeck/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, refresh_token_hash, created_at, updated_at)
		 VALUES (?, ?, ?, NULL, ?, ?)`,
		id, email, passwordHash, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &domain.User{
		ID:        id,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, created_at, updated_at FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.UserCredentials, error) {
	creds := &domain.UserCredentials{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, refresh_token_hash, created_at, updated_at
		 FROM users WHERE email = ?`, email,
	).Scan(&creds.ID, &creds.Email, &creds.PasswordHash, &creds.RefreshTokenHash, &creds.CreatedAt, &creds.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user credentials by email: %w", err)
	}
	return creds, nil
}

func (r *UserRepository) GetByIDWithRefreshHash(ctx context.Context, id string) (*domain.UserCredentials, error) {
	creds := &domain.UserCredentials{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, refresh_token_hash, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	).Scan(&creds.ID, &creds.Email, &creds.PasswordHash, &creds.RefreshTokenHash, &creds.CreatedAt, &creds.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user credentials by id: %w", err)
	}
	return creds, nil
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id string, hash *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set refresh token hash: %w", err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
