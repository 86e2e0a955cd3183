package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetmax/meetmax-api/internal/mailer"
	"github.com/meetmax/meetmax-api/internal/shared"
	"github.com/meetmax/meetmax-api/internal/token"
)

// Service owns every transition of the account state machine:
// Unregistered -> PendingVerification -> Verified. It is the only writer of
// the verification flag and the password hash.
type Service struct {
	store      Store
	sender     mailer.Sender
	codec      *token.Codec
	validate   *validator.Validate
	baseURL    string
	bcryptCost int
}

// NewService constructs a Service. baseURL is the public origin embedded in
// email action links.
func NewService(store Store, sender mailer.Sender, codec *token.Codec, baseURL string, bcryptCost int) *Service {
	return &Service{
		store:      store,
		sender:     sender,
		codec:      codec,
		validate:   validator.New(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		bcryptCost: bcryptCost,
	}
}

// Register creates an unverified account and emails a verification link. A
// repeated registration against a still-unverified record overwrites it and
// resends the email instead of creating a duplicate; a verified record is a
// conflict and nothing is sent.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	gender, ok := ParseGender(req.Gender)
	if !ok {
		return nil, shared.Validation("Invalid gender provided")
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, shared.Validation("Invalid date of birth")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	user, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsVerified {
			return nil, shared.ErrAlreadyRegistered
		}
		// Re-registration before the first verification completed:
		// overwrite the record rather than duplicating it.
		user.Firstname = req.Firstname
		user.Lastname = req.Lastname
		user.PasswordHash = hash
		user.DateOfBirth = dob
		user.Gender = gender
		if err := s.store.Save(ctx, user); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		user = &User{
			ID:           uuid.New(),
			Email:        email,
			Firstname:    req.Firstname,
			Lastname:     req.Lastname,
			PasswordHash: hash,
			DateOfBirth:  dob,
			Gender:       gender,
		}
		if err := s.store.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("register: find by email: %w", err)
	}

	if err := s.sendVerification(user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail redeems an email-action token and marks the account verified.
// Tokens are not tracked as spent; the already-verified check is what makes
// redemption effectively one-time.
func (s *Service) VerifyEmail(ctx context.Context, tokenString string) (*User, error) {
	user, err := s.userFromActionToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, shared.ErrAlreadyVerified
	}
	user.IsVerified = true
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword emails a password-reset link. Reset is only offered to
// verified accounts, so the flow cannot be used to probe and verify
// unverified addresses. The account itself is not mutated.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, shared.Validation("Email field is required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, shared.Validation("Invalid email address")
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("forgot password: find by email: %w", err)
	}
	if !user.IsVerified {
		return nil, shared.ErrAccountNotVerified
	}

	actionToken, err := s.codec.Issue(user.ID.String(), token.PurposeEmailAction)
	if err != nil {
		return nil, fmt.Errorf("forgot password: issue token: %w", err)
	}
	actionURL := fmt.Sprintf("%s/api/auth/new-password/%s", s.baseURL, actionToken)
	if err := s.sender.SendPasswordReset(user.Email, user.Firstname, actionURL); err != nil {
		return nil, err
	}
	return user, nil
}

// SetNewPassword redeems an email-action token and replaces the password of
// a verified account.
func (s *Service) SetNewPassword(ctx context.Context, tokenString, newPassword string) (*User, error) {
	user, err := s.userFromActionToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, shared.ErrAccountNotVerified
	}
	if len(newPassword) < 8 {
		return nil, shared.ErrWeakPassword
	}
	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates email/password credentials and issues an access and a
// refresh token. Unknown accounts and wrong passwords are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.store.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find by email: %w", err)
	}
	if !user.IsVerified {
		return nil, shared.ErrAccountNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	accessToken, err := s.codec.Issue(user.Email, token.PurposeAccess)
	if err != nil {
		return nil, fmt.Errorf("login: issue access token: %w", err)
	}
	refreshToken, err := s.codec.Issue(user.Email, token.PurposeRefresh)
	if err != nil {
		return nil, fmt.Errorf("login: issue refresh token: %w", err)
	}
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh validates a refresh token and mints a new access token. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, string, error) {
	subject, err := s.codec.Parse(refreshToken, token.PurposeRefresh)
	if err != nil {
		return nil, "", shared.ErrForbidden
	}

	user, err := s.store.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.ErrUnauthorized
		}
		return nil, "", fmt.Errorf("refresh: find by email: %w", err)
	}
	if !user.IsVerified {
		return nil, "", shared.ErrAccountNotVerified
	}

	accessToken, err := s.codec.Issue(user.Email, token.PurposeAccess)
	if err != nil {
		return nil, "", fmt.Errorf("refresh: issue access token: %w", err)
	}
	return user, accessToken, nil
}

// RefreshTTL exposes the refresh token lifetime so the handler can scope
// the cookie expiry to match.
func (s *Service) RefreshTTL() time.Duration {
	return s.codec.TTL(token.PurposeRefresh)
}

func (s *Service) userFromActionToken(ctx context.Context, tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, shared.ErrMissingToken
	}
	subject, err := s.codec.Parse(tokenString, token.PurposeEmailAction)
	if err != nil {
		return nil, shared.ErrForbidden
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, shared.ErrForbidden
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find by id: %w", err)
	}
	return user, nil
}

func (s *Service) sendVerification(user *User) error {
	actionToken, err := s.codec.Issue(user.ID.String(), token.PurposeEmailAction)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	actionURL := fmt.Sprintf("%s/api/auth/verify/%s", s.baseURL, actionToken)
	return s.sender.SendVerification(user.Email, user.Firstname, actionURL)
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// validationError converts validator output to the wire-level field message.
// A missing field wins over any format failure, matching the order the
// checks are presented to clients.
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
