package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyRegistered occurs when registering a verified email twice.
	ErrAlreadyRegistered = errors.New("user is already registered")
	// ErrAccountNotFound occurs when a token or email resolves to no account.
	ErrAccountNotFound = errors.New("user does not exist")
	// ErrAccountNotVerified occurs when a flow requires a verified account.
	ErrAccountNotVerified = errors.New("user not verified")
	// ErrAlreadyVerified occurs when redeeming a verification token twice.
	ErrAlreadyVerified = errors.New("user already verified")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrEmailTaken occurs when an update collides with another account's email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrWeakPassword occurs when a new password is shorter than 8 characters.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrMissingToken occurs when an email-action route is called without a token.
	ErrMissingToken = errors.New("missing token")
	// ErrUnauthorized maps to 401 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden maps to 403 responses, including invalid token rejections.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries a field-level message for 400 responses.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}
