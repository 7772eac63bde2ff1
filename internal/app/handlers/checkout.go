package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
)

// CheckoutItem is one cart line submitted by the storefront. Only the
// product id and the quantity are trusted; prices come from the catalog.
type CheckoutItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest is the payload of POST /api/checkout
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// CheckoutResponse carries the provider redirect URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CheckoutHandler handles POST /api/checkout
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			errorJSON(w, http.StatusBadRequest, "cart is empty or malformed")
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items := make([]service.CartItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, service.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		url, err := checkoutService.CreateSession(r.Context(), userID, items)
		if err != nil {
			var notFound *service.ProductNotFoundError
			switch {
			case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidQuantity):
				errorJSON(w, http.StatusBadRequest, err.Error())
			case errors.As(err, &notFound):
				errorJSON(w, http.StatusBadRequest, notFound.Error())
			case errors.Is(err, service.ErrPaymentGateway):
				errorJSON(w, http.StatusInternalServerError, err.Error())
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				errorJSON(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, CheckoutResponse{URL: url})
	}
}
