package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pedrolvck/vendrix/internal/app/handlers"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/security/jwtmiddleware"
	"github.com/pedrolvck/vendrix/internal/service"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCheckoutService struct {
	url      string
	err      error
	lastUser string
	lastCart []service.CartItem
}

func (f *fakeCheckoutService) CreateSession(ctx context.Context, userID string, items []service.CartItem) (string, error) {
	f.lastUser = userID
	f.lastCart = items
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeAuthService struct {
	token string
	user  *models.User
	err   error
}

func (f *fakeAuthService) Register(ctx context.Context, in service.RegisterInput) (string, *models.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

type fakeCatalogService struct {
	product  *models.Product
	products []*models.Product
	err      error
}

func (f *fakeCatalogService) CreateProduct(ctx context.Context, supplierID string, in service.ProductInput) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, q storage.ProductQuery) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalogService) UpdateProduct(ctx context.Context, id, supplierID string, in service.ProductInput) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeCatalogService) DeleteProduct(ctx context.Context, id, supplierID string) error {
	return f.err
}

func (f *fakeCatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: "cat-1", Name: name}, nil
}

func (f *fakeCatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return nil, f.err
}

func authedRequest(method, target string, body []byte, userID, role string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, jwtmiddleware.RoleKey, role)
	return req.WithContext(ctx)
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://pay.example.com/cs_test_123"}
	handler := handlers.CheckoutHandler(testLogger(), svc)

	body, _ := json.Marshal(handlers.CheckoutRequest{
		Items: []handlers.CheckoutItem{{ProductID: "p-1", Quantity: 2}},
	})
	req := authedRequest(http.MethodPost, "/api/checkout", body, "u-1", models.RoleCustomer)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.CheckoutResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "https://pay.example.com/cs_test_123", resp.URL)
	assert.Equal(t, "u-1", svc.lastUser)
	assert.Equal(t, []service.CartItem{{ProductID: "p-1", Quantity: 2}}, svc.lastCart)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://pay.example.com/never"}
	handler := handlers.CheckoutHandler(testLogger(), svc)

	req := authedRequest(http.MethodPost, "/api/checkout", []byte(`{"items":[]}`), "u-1", models.RoleCustomer)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastUser, "service must not be called for an empty cart")
}

func TestCheckoutHandler_ProductNotFound(t *testing.T) {
	svc := &fakeCheckoutService{err: &service.ProductNotFoundError{ProductID: "p-404"}}
	handler := handlers.CheckoutHandler(testLogger(), svc)

	body := []byte(`{"items":[{"productId":"p-404","quantity":1}]}`)
	req := authedRequest(http.MethodPost, "/api/checkout", body, "u-1", models.RoleCustomer)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "p-404")
}

func TestCheckoutHandler_GatewayError(t *testing.T) {
	svc := &fakeCheckoutService{err: service.ErrPaymentGateway}
	handler := handlers.CheckoutHandler(testLogger(), svc)

	body := []byte(`{"items":[{"productId":"p-1","quantity":1}]}`)
	req := authedRequest(http.MethodPost, "/api/checkout", body, "u-1", models.RoleCustomer)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCheckoutHandler_NoUserInContext(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://pay.example.com/never"}
	handler := handlers.CheckoutHandler(testLogger(), svc)

	body := []byte(`{"items":[{"productId":"p-1","quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &fakeAuthService{
		token: "jwt-token",
		user:  &models.User{ID: "u-1", Email: "new@example.com", Name: "New", Role: models.RoleCustomer},
	}
	handler := handlers.RegisterHandler(testLogger(), svc)

	body := []byte(`{"email":"new@example.com","password":"secret123","name":"New"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handlers.AuthResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "new@example.com", resp.User.Email)
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	svc := &fakeAuthService{err: service.ErrEmailTaken}
	handler := handlers.RegisterHandler(testLogger(), svc)

	body := []byte(`{"email":"dup@example.com","password":"secret123","name":"Dup"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	handler := handlers.RegisterHandler(testLogger(), &fakeAuthService{})

	body := []byte(`{"email":"new@example.com","password":"123","name":"New"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), svc)

	body := []byte(`{"email":"user@example.com","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProductHandler_Success(t *testing.T) {
	svc := &fakeCatalogService{product: &models.Product{
		ID:    "p-1",
		Name:  "Nike Air Max Future",
		Price: decimal.RequireFromString("1299.90"),
		SKU:   "NK-AM-001",
	}}
	handler := handlers.GetProductHandler(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/p-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "p-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, "p-1", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1299.90")))
}

func TestGetProductHandler_NotFound(t *testing.T) {
	svc := &fakeCatalogService{err: service.ErrProductNotFound}
	handler := handlers.GetProductHandler(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductHandler_NonPositivePrice(t *testing.T) {
	handler := handlers.CreateProductHandler(testLogger(), &fakeCatalogService{})

	body := []byte(`{"name":"Freebie","price":"0","sku":"FREE-001","stock":1,"category_id":"7f9c24e5-2b3a-4d3e-9f1a-6c2d8b5e4a10"}`)
	req := authedRequest(http.MethodPost, "/api/products", body, "sup-1", models.RoleSupplier)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
