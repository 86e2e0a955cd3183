package httpx

import (
	"errors"
	"net/http"

	"github.com/meetmax/meetmax-api/internal/shared"
)

// RespondError maps domain errors to HTTP failure envelopes. Invalid and
// expired tokens both surface as the same 403 so callers cannot tell which
// failure mode occurred.
func RespondError(w http.ResponseWriter, err error) {
	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		Fail(w, http.StatusBadRequest, ve.Msg)
		return
	}

	switch {
	case errors.Is(err, shared.ErrAlreadyRegistered):
		Fail(w, http.StatusConflict, "User is already registered")
	case errors.Is(err, shared.ErrAccountNotFound):
		Fail(w, http.StatusBadRequest, "User does not exist")
	case errors.Is(err, shared.ErrAccountNotVerified):
		Fail(w, http.StatusUnauthorized, "User not verified")
	case errors.Is(err, shared.ErrAlreadyVerified):
		Fail(w, http.StatusBadRequest, "User already verified")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, shared.ErrEmailTaken):
		Fail(w, http.StatusBadRequest, "Email already taken")
	case errors.Is(err, shared.ErrWeakPassword):
		Fail(w, http.StatusBadRequest, "Password must be at least 8 characters")
	case errors.Is(err, shared.ErrMissingToken):
		Fail(w, http.StatusUnprocessableEntity, "Missing Token")
	case errors.Is(err, shared.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusBadRequest, "No user(s) found")
	default:
		Fail(w, http.StatusInternalServerError, "Something went wrong")
	}
}
