package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/service"
)

// CategoryRequest is the payload of POST /api/categories
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateCategoryHandler handles POST /api/categories (admin)
func CreateCategoryHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateCategoryHandler"
		logger := log.With(slog.String("op", op))

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "validation error")
			return
		}

		category, err := catalog.CreateCategory(r.Context(), req.Name)
		if err != nil {
			logger.Error("create category failed", slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, category)
	}
}

// ListCategoriesHandler handles GET /api/categories
func ListCategoriesHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListCategoriesHandler"

		categories, err := catalog.ListCategories(r.Context())
		if err != nil {
			log.Error("list categories failed", slog.String("op", op), slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if categories == nil {
			categories = []*models.Category{}
		}

		writeJSON(w, http.StatusOK, categories)
	}
}
