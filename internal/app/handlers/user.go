package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
)

// UpdateRoleRequest is the payload of PATCH /api/users/{id}/role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer supplier admin"`
}

// ProfileHandler handles GET /api/profile
func ProfileHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProfileHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := userService.Profile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				errorJSON(w, http.StatusNotFound, err.Error())
				return
			}
			logger.Error("failed to get profile", slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateRoleHandler handles PATCH /api/users/{id}/role (admin only,
// enforced by the RequireRoles middleware on the route).
func UpdateRoleHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateRoleHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid user role")
			return
		}

		user, err := userService.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				errorJSON(w, http.StatusNotFound, err.Error())
			case errors.Is(err, service.ErrInvalidRole):
				errorJSON(w, http.StatusBadRequest, err.Error())
			default:
				logger.Error("failed to update role", slog.Any("error", err))
				errorJSON(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
