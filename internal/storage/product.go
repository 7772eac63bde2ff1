package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pedrolvck/vendrix/internal/domain/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("product with this sku already exists")
)

// ProductQuery narrows ListProducts. Empty fields are ignored.
type ProductQuery struct {
	Search     string
	CategoryID string
}

// ProductStorage describes the methods for working with the product catalog.
type ProductStorage interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id, supplierID string) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.sku, p.stock,
	       p.category_id, c.name, p.supplier_id, p.image_url, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON p.category_id = c.id`

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	p := &models.Product{}
	var description, imageURL sql.NullString
	err := scan(&p.ID, &p.Name, &description, &p.Price, &p.SKU, &p.Stock,
		&p.CategoryID, &p.CategoryName, &p.SupplierID, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, sku, stock, category_id, supplier_id, image_url, created_at, updated_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), NOW(), NOW())`,
		p.ID, p.Name, p.Description, p.Price, p.SKU, p.Stock, p.CategoryID, p.SupplierID, p.ImageURL)
	return err
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+" WHERE p.id = $1", id)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+" WHERE p.sku = $1", sku)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, q ProductQuery) ([]*models.Product, error) {
	search := strings.TrimSpace(q.Search)

	rows, err := r.db.QueryContext(ctx, productSelect+`
		WHERE ($1 = '' OR p.name ILIKE '%'||$1||'%' OR p.description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR p.category_id = $2)
		ORDER BY p.created_at DESC`,
		search, q.CategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct persists new product fields. The supplier id is part of the
// WHERE clause so a supplier can only touch their own products.
func (r *productRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = NULLIF($2, ''), price = $3, stock = $4,
		     category_id = $5, image_url = NULLIF($6, ''), updated_at = NOW()
		 WHERE id = $7 AND supplier_id = $8`,
		p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL, p.ID, p.SupplierID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id, supplierID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND supplier_id = $2", id, supplierID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
