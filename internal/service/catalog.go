package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrSKUTaken         = errors.New("product with this sku already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found or access denied")
)

// ProductInput carries the fields of a product create or update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         string
	Stock       int
	CategoryID  string
	ImageURL    string
}

// CatalogService manages the product and category catalog. Create, update
// and delete are scoped to the supplier that owns the product.
type CatalogService interface {
	CreateProduct(ctx context.Context, supplierID string, in ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, q storage.ProductQuery) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id, supplierID string, in ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, supplierID string) error
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type catalogService struct {
	log          *slog.Logger
	productRepo  storage.ProductStorage
	categoryRepo storage.CategoryStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, categoryRepo storage.CategoryStorage) CatalogService {
	return &catalogService{
		log:          log,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, supplierID string, in ProductInput) (*models.Product, error) {
	const op = "service.CatalogService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("supplierID", supplierID))

	// SKU must be unique across all suppliers
	if _, err := s.productRepo.GetProductBySKU(ctx, in.SKU); err == nil {
		logger.Warn("sku already taken", slog.String("sku", in.SKU))
		return nil, ErrSKUTaken
	} else if !errors.Is(err, storage.ErrProductNotFound) {
		logger.Error("failed to check sku", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to check sku: %w", op, err)
	}

	category, err := s.categoryRepo.GetCategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			logger.Warn("unknown category", slog.String("categoryID", in.CategoryID))
			return nil, ErrCategoryNotFound
		}
		logger.Error("failed to get category", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get category: %w", op, err)
	}

	product := &models.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		SKU:          in.SKU,
		Stock:        in.Stock,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		SupplierID:   supplierID,
		ImageURL:     in.ImageURL,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product created", slog.String("productID", product.ID), slog.String("sku", product.SKU))
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, q storage.ProductQuery) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx, q)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id, supplierID string, in ProductInput) (*models.Product, error) {
	const op = "service.CatalogService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("productID", id), slog.String("supplierID", supplierID))

	if _, err := s.categoryRepo.GetCategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%s: failed to get category: %w", op, err)
	}

	product := &models.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		SupplierID:  supplierID,
		ImageURL:    in.ImageURL,
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found or owned by another supplier")
			return nil, ErrProductNotFound
		}
		logger.Error("failed to update product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	return s.productRepo.GetProductByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id, supplierID string) error {
	const op = "service.CatalogService.DeleteProduct"
	logger := s.log.With(slog.String("op", op), slog.String("productID", id), slog.String("supplierID", supplierID))

	if err := s.productRepo.DeleteProduct(ctx, id, supplierID); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found or owned by another supplier")
			return ErrProductNotFound
		}
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	const op = "service.CatalogService.CreateCategory"

	category := &models.Category{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		s.log.Error("failed to create category", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create category: %w", op, err)
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "service.CatalogService.ListCategories"

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}
