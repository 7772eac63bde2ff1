package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pedrolvck/vendrix/internal/clients"
	"github.com/pedrolvck/vendrix/internal/config"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when checkout is called with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidQuantity is returned when a cart line has a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrPaymentGateway is returned when the payment provider refuses or
	// fails to create the hosted checkout session. The PENDING order already
	// exists at that point and is deliberately left in place.
	ErrPaymentGateway = errors.New("failed to create payment session")
)

// ProductNotFoundError identifies the cart line that did not resolve
// against the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// CartItem is one client-submitted cart line. The price never comes from
// the client, it is always re-read from the catalog.
type CartItem struct {
	ProductID string
	Quantity  int
}

// CheckoutService converts a cart into a persisted order plus a hosted
// payment session and returns the redirect URL for the buyer.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID string, items []CartItem) (string, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	userRepo    storage.UserStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	gateway     clients.PaymentGateway
	mail        clients.MailSender
	successURL  string
	cancelURL   string
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	userRepo storage.UserStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	gateway clients.PaymentGateway,
	mail clients.MailSender,
	cfg config.PaymentConfig,
) CheckoutService {
	return &checkoutService{
		log:         log,
		db:          db,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		mail:        mail,
		successURL:  cfg.SuccessURL,
		cancelURL:   cfg.CancelURL,
	}
}

var hundred = decimal.NewFromInt(100)

// CreateSession runs the whole checkout sequence: resolve and price every
// cart line from the catalog, persist the order with its items atomically,
// fire the confirmation email without waiting for it, create the payment
// session and attach its id to the order.
//
// All catalog lookups happen before any write, so an unresolved product
// leaves no state behind. A gateway failure after the order is written
// leaves the PENDING order without a session; that state is accepted and
// recoverable, the order is not rolled back.
func (s *checkoutService) CreateSession(ctx context.Context, userID string, items []CartItem) (string, error) {
	const op = "service.CheckoutService.CreateSession"
	logger := s.log.With(slog.String("op", op), slog.String("userID", userID))

	if len(items) == 0 {
		logger.Warn("checkout with empty cart")
		return "", ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity < 1 {
			logger.Warn("checkout with non-positive quantity", slog.String("productID", item.ProductID))
			return "", ErrInvalidQuantity
		}
	}

	logger.Info("starting checkout", slog.Int("items", len(items)))

	// Resolve every line against the catalog before touching the order
	// tables. Prices are snapshotted here; the stored total and the stored
	// items must come from the same snapshot.
	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	lineItems := make([]clients.SessionLineItem, 0, len(items))

	for _, item := range items {
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				logger.Warn("cart references unknown product", slog.String("productID", item.ProductID))
				return "", &ProductNotFoundError{ProductID: item.ProductID}
			}
			logger.Error("failed to resolve product", slog.Any("error", err))
			return "", fmt.Errorf("%s: failed to resolve product: %w", op, err)
		}

		orderItems = append(orderItems, models.OrderItem{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})

		lineItems = append(lineItems, clients.SessionLineItem{
			Name: product.Name,
			// providers want integer minor units, rounded half-up
			UnitAmount: product.Price.Mul(hundred).Round(0).IntPart(),
			Quantity:   item.Quantity,
		})

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  total,
	}
	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order items", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create order items: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	order.Items = orderItems

	logger.Info("order created", slog.String("orderID", order.ID), slog.String("total", total.StringFixed(2)))

	s.notifyBuyer(ctx, logger, userID, order)

	session, err := s.gateway.CreateSession(ctx, &clients.SessionRequest{
		LineItems:  lineItems,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
		Metadata:   map[string]string{"order_id": order.ID},
	})
	if err != nil {
		// the PENDING order stays without a session, recoverable later
		logger.Error("payment session creation failed", slog.String("orderID", order.ID), slog.Any("error", err))
		return "", ErrPaymentGateway
	}

	if err := s.orderRepo.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		logger.Error("failed to attach payment session", slog.String("orderID", order.ID), slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to attach payment session: %w", op, err)
	}

	logger.Info("checkout completed", slog.String("orderID", order.ID), slog.String("sessionID", session.ID))
	return session.URL, nil
}

// notifyBuyer dispatches the confirmation email in a detached goroutine.
// Whatever happens here never affects the checkout outcome.
func (s *checkoutService) notifyBuyer(ctx context.Context, logger *slog.Logger, userID string, order *models.Order) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Warn("failed to load buyer for notification", slog.Any("error", err))
		return
	}
	if user.Email == "" {
		return
	}

	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mail.SendOrderConfirmation(mailCtx, user.Email, user.Name, order.ID, order.Total); err != nil {
			logger.Error("failed to send order confirmation", slog.String("orderID", order.ID), slog.Any("error", err))
		}
	}()
}
