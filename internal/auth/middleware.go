package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/meetmax/meetmax-api/internal/platform/httpx"
	"github.com/meetmax/meetmax-api/internal/shared"
	"github.com/meetmax/meetmax-api/internal/token"
)

type emailContextKey struct{}

// ContextWithEmail stores the authenticated email in context.
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey{}, email)
}

// EmailFromContext extracts the authenticated email from context.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailContextKey{}).(string)
	return email
}

// RequireAuth validates bearer access tokens on protected routes and
// attaches the subject's email to the request context. It is a pure
// function of header and secret: no store lookup, so a deleted account
// keeps access until its token expires.
func RequireAuth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}

			email, err := codec.Parse(strings.TrimPrefix(header, prefix), token.PurposeAccess)
			if err != nil {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithEmail(r.Context(), email)))
		})
	}
}
