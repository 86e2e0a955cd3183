package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetmax/meetmax-api/internal/auth"
	"github.com/meetmax/meetmax-api/internal/shared"
)

const dateLayout = "2006-01-02"

// Service handles user management business logic.
type Service struct {
	store      Store
	validate   *validator.Validate
	bcryptCost int
}

// NewService builds a Service instance.
func NewService(store Store, bcryptCost int) *Service {
	return &Service{store: store, validate: validator.New(), bcryptCost: bcryptCost}
}

// ListUsers returns all users. An empty store is reported as not found.
func (s *Service) ListUsers(ctx context.Context) ([]auth.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, shared.ErrNotFound
	}
	return users, nil
}

// UpdateResult carries the user identity before and after an update, so
// callers can report what changed.
type UpdateResult struct {
	Previous auth.User
	Updated  auth.User
}

// Update replaces a verified user's profile fields. The password is only
// rehashed when a new one is supplied. An email change must not collide
// with another account.
func (s *Service) Update(ctx context.Context, req UpdateUserRequest) (*UpdateResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	gender, ok := auth.ParseGender(req.Gender)
	if !ok {
		return nil, shared.Validation("Invalid gender provided")
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, shared.Validation("Invalid date of birth")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, shared.Validation("Invalid user ID")
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update user: find by id: %w", err)
	}
	if !user.IsVerified {
		return nil, shared.ErrAccountNotVerified
	}

	email := auth.NormalizeEmail(req.Email)
	if duplicate, err := s.store.FindByEmail(ctx, email); err == nil && duplicate.ID != user.ID {
		return nil, shared.ErrEmailTaken
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("update user: find by email: %w", err)
	}

	previous := *user
	user.Email = email
	user.Firstname = req.Firstname
	user.Lastname = req.Lastname
	user.DateOfBirth = dob
	user.Gender = gender
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return &UpdateResult{Previous: previous, Updated: *user}, nil
}

// Delete removes a user record by id.
func (s *Service) Delete(ctx context.Context, rawID string) (*auth.User, error) {
	if rawID == "" {
		return nil, shared.Validation("User ID required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, shared.Validation("Invalid user ID")
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("delete user: find by id: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return shared.Validation("Invalid request body")
	}
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return shared.Validation("All fields are required")
		}
	}
	switch fe := errs[0]; fe.Field() {
	case "Email":
		return shared.Validation("Invalid email address")
	case "Password":
		return shared.Validation("Password must be at least 8 characters")
	case "DateOfBirth":
		return shared.Validation("Invalid date of birth")
	default:
		return shared.Validation("Invalid " + strings.ToLower(fe.Field()) + " provided")
	}
}
