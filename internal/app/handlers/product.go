package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
)

// ProductRequest is the payload of product create and update. The price
// travels as a string so the decimal survives the JSON round trip intact.
type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	SKU         string `json:"sku" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	ImageURL    string `json:"image_url"`
}

func (r ProductRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() || price.IsZero() {
		return service.ProductInput{}, errors.New("price must be a positive decimal")
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		SKU:         r.SKU,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
	}, nil
}

// CreateProductHandler handles POST /api/products (supplier or admin)
func CreateProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
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
		in, err := req.toInput()
		if err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}

		supplierID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		product, err := catalog.CreateProduct(r.Context(), supplierID, in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSKUTaken):
				errorJSON(w, http.StatusConflict, err.Error())
			case errors.Is(err, service.ErrCategoryNotFound):
				errorJSON(w, http.StatusBadRequest, err.Error())
			default:
				logger.Error("create product failed", slog.Any("error", err))
				errorJSON(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, product)
	}
}

// ListProductsHandler handles GET /api/products?search=&category=
func ListProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"

		q := storage.ProductQuery{
			Search:     r.URL.Query().Get("search"),
			CategoryID: r.URL.Query().Get("category"),
		}

		products, err := catalog.ListProducts(r.Context(), q)
		if err != nil {
			log.Error("list products failed", slog.String("op", op), slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if products == nil {
			products = []*models.Product{}
		}

		writeJSON(w, http.StatusOK, products)
	}
}

// GetProductHandler handles GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"

		id := chi.URLParam(r, "id")
		product, err := catalog.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				errorJSON(w, http.StatusNotFound, err.Error())
				return
			}
			log.Error("get product failed", slog.String("op", op), slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

// UpdateProductHandler handles PUT /api/products/{id} (owning supplier or admin)
func UpdateProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
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
		in, err := req.toInput()
		if err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}

		supplierID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		product, err := catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), supplierID, in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrProductNotFound):
				errorJSON(w, http.StatusNotFound, err.Error())
			case errors.Is(err, service.ErrCategoryNotFound):
				errorJSON(w, http.StatusBadRequest, err.Error())
			default:
				logger.Error("update product failed", slog.Any("error", err))
				errorJSON(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

// DeleteProductHandler handles DELETE /api/products/{id} (owning supplier or admin)
func DeleteProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"

		supplierID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id"), supplierID); err != nil {
			if errors.Is(err, service.ErrProductNotFound) {
				errorJSON(w, http.StatusNotFound, err.Error())
				return
			}
			log.Error("delete product failed", slog.String("op", op), slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
