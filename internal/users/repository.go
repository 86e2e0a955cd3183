// Package users provides authenticated user management: listing, profile
// updates and deletion. All routes sit behind the bearer-token gate.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetmax/meetmax-api/internal/auth"
	"github.com/meetmax/meetmax-api/internal/shared"
)

// Store defines persistence operations for user management. It operates on
// the same user records as the auth store.
type Store interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	Save(ctx context.Context, user *auth.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const userColumns = "id, email, firstname, lastname, password_hash, date_of_birth, gender, is_verified, created_at, updated_at"

// ListUsers returns every user record, oldest first.
func (s *PGStore) ListUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var result []auth.User
	for rows.Next() {
		var u auth.User
		var gender string
		if err := rows.Scan(&u.ID, &u.Email, &u.Firstname, &u.Lastname, &u.PasswordHash,
			&u.DateOfBirth, &gender, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		u.Gender = auth.Gender(gender)
		result = append(result, u)
	}
	return result, rows.Err()
}

// FindByID fetches a user by id.
func (s *PGStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// FindByEmail fetches a user by normalized email.
func (s *PGStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *PGStore) findOne(ctx context.Context, query string, arg any) (*auth.User, error) {
	var u auth.User
	var gender string
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Firstname, &u.Lastname, &u.PasswordHash,
		&u.DateOfBirth, &gender, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.Gender = auth.Gender(gender)
	return &u, nil
}

// Save persists every mutable field of an existing record.
func (s *PGStore) Save(ctx context.Context, user *auth.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, firstname = $3, lastname = $4, password_hash = $5,
		    date_of_birth = $6, gender = $7, is_verified = $8, updated_at = now()
		WHERE id = $1`,
		user.ID, user.Email, user.Firstname, user.Lastname, user.PasswordHash,
		user.DateOfBirth, string(user.Gender), user.IsVerified)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("users: save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a user record.
func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Store = (*PGStore)(nil)
