package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetmax/meetmax-api/internal/platform/httpx"
	"github.com/meetmax/meetmax-api/internal/shared"
)

// refreshCookieName is the cookie carrying the refresh token. The name is
// part of the public contract with existing clients.
const refreshCookieName = "jwt"

// Handler wires HTTP endpoints for the account lifecycle.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers auth routes on the provided router. loginLimiter,
// when non-nil, gates the login route only.
func (h *Handler) MountRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Get("/verify/{token}", h.Verify)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Patch("/new-password/{token}", h.SetNewPassword)
	if loginLimiter != nil {
		r.With(loginLimiter).Post("/login", h.Login)
	} else {
		r.Post("/login", h.Login)
	}
	r.Get("/refresh", h.Refresh)
	r.Get("/logout", h.Logout)
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, fmt.Sprintf("A verification email was sent to %s", user.Email), nil)
}

// Verify handles GET /api/auth/verify/{token}.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.logger.Warn("verify email failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, fmt.Sprintf("User %s %s with email: %s verified", user.Lastname, user.Firstname, user.Email), nil)
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.logger.Warn("forgot password failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, fmt.Sprintf("A password reset email was sent to %s", user.Email), nil)
}

// SetNewPassword handles PATCH /api/auth/new-password/{token}.
func (h *Handler) SetNewPassword(w http.ResponseWriter, r *http.Request) {
	var req SetNewPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.SetNewPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
	if err != nil {
		h.logger.Warn("set new password failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, fmt.Sprintf("User %s %s with email: %s password changed", user.Lastname, user.Firstname, user.Email), nil)
}

// Login handles POST /api/auth/login. The access token travels in the body,
// the refresh token only in an HTTP-only cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("login failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	httpx.OK(w, "User logged in", map[string]any{
		"accessToken": result.AccessToken,
		"user":        result.User.View(),
	})
}

// Refresh handles GET /api/auth/refresh. It mints a new access token from
// the refresh cookie; the refresh token is not rotated.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	user, accessToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Warn("refresh failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "New access token generated", map[string]any{
		"accessToken": accessToken,
		"user":        user.View(),
	})
}

// Logout handles GET /api/auth/logout. Logging out without a cookie is not
// an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(refreshCookieName); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.clearRefreshCookie(w)
	httpx.OK(w, "Cookie cleared", nil)
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   int(h.service.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearRefreshCookie must use the same scope attributes as setRefreshCookie
// or browsers will keep the original cookie.
func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
