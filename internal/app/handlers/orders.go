package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
)

// OrdersHandler handles GET /api/orders, the caller's order history.
func OrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			errorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := orderService.ListByUser(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			errorJSON(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		writeJSON(w, http.StatusOK, orders)
	}
}
