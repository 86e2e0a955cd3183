package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetmax/meetmax-api/internal/shared"
)

// Store defines persistence operations for account records. The store
// enforces email uniqueness; a losing concurrent registration surfaces as
// shared.ErrAlreadyRegistered instead of a silent duplicate.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
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

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var gender string
	err := row.Scan(&u.ID, &u.Email, &u.Firstname, &u.Lastname, &u.PasswordHash,
		&u.DateOfBirth, &gender, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.Gender = Gender(gender)
	return &u, nil
}

// FindByEmail fetches a user by normalized email.
func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// FindByID fetches a user by id.
func (s *PGStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// Create inserts a new account record. The unique index on email converts
// the register check-then-create race into a deterministic conflict.
func (s *PGStore) Create(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, firstname, lastname, password_hash, date_of_birth, gender, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Email, user.Firstname, user.Lastname, user.PasswordHash,
		user.DateOfBirth, string(user.Gender), user.IsVerified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyRegistered
		}
		return fmt.Errorf("auth: create user: %w", err)
	}
	return nil
}

// Save persists every mutable field of an existing record.
func (s *PGStore) Save(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, firstname = $3, lastname = $4, password_hash = $5,
		    date_of_birth = $6, gender = $7, is_verified = $8, updated_at = $9
		WHERE id = $1`,
		user.ID, user.Email, user.Firstname, user.Lastname, user.PasswordHash,
		user.DateOfBirth, string(user.Gender), user.IsVerified, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("auth: save user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Store = (*PGStore)(nil)
