package users

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetmax/meetmax-api/internal/auth"
	"github.com/meetmax/meetmax-api/internal/platform/httpx"
)

// Handler wires HTTP endpoints for user management.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes on the provided router. The caller is
// responsible for putting the auth gate in front.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/all-users", h.List)
	r.Patch("/update-user", h.Update)
	r.Delete("/delete-user", h.Delete)
}

// List handles GET /api/user/all-users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Warn("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views := make([]auth.View, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	httpx.OK(w, "Users retrieved", views)
}

// Update handles PATCH /api/user/update-user.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Update(r.Context(), req)
	if err != nil {
		h.logger.Warn("update user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	old, updated := result.Previous, result.Updated
	httpx.OK(w, fmt.Sprintf("User %s %s with email: %s updated to: User %s %s with email: %s",
		old.Lastname, old.Firstname, old.Email,
		updated.Lastname, updated.Firstname, updated.Email), nil)
}

// Delete handles DELETE /api/user/delete-user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Delete(r.Context(), req.ID)
	if err != nil {
		h.logger.Warn("delete user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, fmt.Sprintf("User %s %s with email: %s deleted", user.Lastname, user.Firstname, user.Email), nil)
}
