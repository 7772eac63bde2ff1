package storage_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "email", "name", "last_name", "phone", "pass_hash", "role", "created_at"}).
		AddRow("u-1", "test@example.com", "Test", nil, nil, []byte("hashed-password"), "customer", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, last_name, phone, pass_hash, role, created_at FROM users WHERE email = $1")).
		WithArgs("test@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, "test@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)
	assert.Equal(t, "customer", user.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "last_name", "phone", "pass_hash", "role", "created_at"})
	mock.ExpectQuery("SELECT id, email, name, last_name, phone, pass_hash, role, created_at FROM users WHERE email = \\$1").
		WithArgs("ghost@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_EmailTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.CreateUser(context.Background(), &models.User{
		ID:       "u-1",
		Email:    "dup@example.com",
		Name:     "Dup",
		PassHash: []byte("hash"),
		Role:     models.RoleCustomer,
	})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "price", "sku", "stock",
		"category_id", "name", "supplier_id", "image_url", "created_at", "updated_at",
	})
}

func TestGetProductByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	rows := productRows().
		AddRow("p-1", "Nike Air Max Future", "The future of sneakers", "1299.90", "NK-AM-001", 50,
			"cat-1", "Sneakers", "sup-1", nil, time.Now(), time.Now())

	mock.ExpectQuery("SELECT p.id, p.name, p.description, p.price, p.sku, p.stock").
		WithArgs("p-1").WillReturnRows(rows)

	p, err := repo.GetProductByID(context.Background(), "p-1")
	assert.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1299.90")))
	assert.Equal(t, "Sneakers", p.CategoryName)
	assert.Equal(t, "NK-AM-001", p.SKU)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectQuery("SELECT p.id, p.name, p.description, p.price, p.sku, p.stock").
		WithArgs("missing").WillReturnRows(productRows())

	p, err := repo.GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.Nil(t, p)
}

func TestListProducts_Filtered(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	rows := productRows().
		AddRow("p-1", "Nike Air Max Future", nil, "1299.90", "NK-AM-001", 50,
			"cat-1", "Sneakers", "sup-1", nil, time.Now(), time.Now()).
		AddRow("p-2", "Adidas Ultraboost X", nil, "999.90", "AD-UB-002", 30,
			"cat-1", "Sneakers", "sup-1", nil, time.Now(), time.Now())

	mock.ExpectQuery("SELECT p.id, p.name, p.description, p.price, p.sku, p.stock").
		WithArgs("air", "cat-1").WillReturnRows(rows)

	products, err := repo.ListProducts(context.Background(), storage.ProductQuery{Search: "air", CategoryID: "cat-1"})
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithItems_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()

	total := decimal.RequireFromString("200.00")
	price := decimal.RequireFromString("100.00")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders (id, user_id, status, total, created_at, updated_at) VALUES ($1, $2, $3, $4, NOW(), NOW())")).
		WithArgs("o-1", "u-1", "PENDING", total).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)")).
		WithArgs("i-1", "o-1", "p-1", 2, price).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	order := &models.Order{ID: "o-1", UserID: "u-1", Status: models.OrderStatusPending, Total: total}
	assert.NoError(t, repo.CreateOrder(ctx, tx, order))
	assert.NoError(t, repo.CreateOrderItems(ctx, tx, []models.OrderItem{
		{ID: "i-1", OrderID: "o-1", ProductID: "p-1", Quantity: 2, Price: price},
	}))
	assert.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPaymentSession_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectExec("UPDATE orders SET payment_session_id = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs("cs_test_123", "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetPaymentSession(context.Background(), "o-1", "cs_test_123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetPaymentSession_OrderNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectExec("UPDATE orders SET payment_session_id = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs("cs_test_123", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetPaymentSession(context.Background(), "missing", "cs_test_123")
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
}

func TestGetOrdersByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	orderRows := sqlmock.NewRows([]string{"id", "user_id", "status", "total", "payment_session_id", "created_at", "updated_at"}).
		AddRow("o-1", "u-1", "PENDING", "200.00", "cs_test_123", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, user_id, status, total, payment_session_id, created_at, updated_at FROM orders WHERE user_id = \\$1").
		WithArgs("u-1").WillReturnRows(orderRows)

	itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price"}).
		AddRow("i-1", "o-1", "p-1", 2, "100.00")
	mock.ExpectQuery("SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = \\$1").
		WithArgs("o-1").WillReturnRows(itemRows)

	orders, err := repo.GetOrdersByUserID(context.Background(), "u-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.NotNil(t, orders[0].PaymentSessionID)
	assert.Equal(t, "cs_test_123", *orders[0].PaymentSessionID)
	assert.Len(t, orders[0].Items, 1)
	assert.True(t, orders[0].Items[0].Price.Equal(decimal.RequireFromString("100.00")))

	assert.NoError(t, mock.ExpectationsWereMet())
}
