package service_test

import (
	"context"
	"testing"

	"github.com/pedrolvck/vendrix/internal/domain/models"
	"github.com/pedrolvck/vendrix/internal/service"
	"github.com/pedrolvck/vendrix/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeCategoryRepo struct {
	categories map[string]*models.Category
}

var _ storage.CategoryStorage = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*models.Category)}
}

func (f *fakeCategoryRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, storage.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func TestCatalogService_CreateProduct(t *testing.T) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	categories.categories["cat-1"] = &models.Category{ID: "cat-1", Name: "Sneakers"}

	svc := service.NewCatalogService(testLogger(), products, categories)

	product, err := svc.CreateProduct(context.Background(), "supplier-1", service.ProductInput{
		Name:       "Nike Air Max Future",
		Price:      decimal.RequireFromString("1299.90"),
		SKU:        "NK-AM-001",
		Stock:      50,
		CategoryID: "cat-1",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "supplier-1", product.SupplierID)
	assert.Equal(t, "Sneakers", product.CategoryName)
}

func TestCatalogService_CreateProduct_DuplicateSKU(t *testing.T) {
	products := newFakeProductRepo()
	categories := newFakeCategoryRepo()
	categories.categories["cat-1"] = &models.Category{ID: "cat-1", Name: "Sneakers"}

	svc := service.NewCatalogService(testLogger(), products, categories)

	in := service.ProductInput{
		Name:       "Nike Air Max Future",
		Price:      decimal.RequireFromString("1299.90"),
		SKU:        "NK-AM-001",
		CategoryID: "cat-1",
	}
	_, err := svc.CreateProduct(context.Background(), "supplier-1", in)
	assert.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), "supplier-2", in)
	assert.ErrorIs(t, err, service.ErrSKUTaken)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	svc := service.NewCatalogService(testLogger(), newFakeProductRepo(), newFakeCategoryRepo())

	_, err := svc.CreateProduct(context.Background(), "supplier-1", service.ProductInput{
		Name:       "Orphan",
		Price:      decimal.RequireFromString("10.00"),
		SKU:        "OR-001",
		CategoryID: "missing",
	})
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	svc := service.NewCatalogService(testLogger(), newFakeProductRepo(), newFakeCategoryRepo())

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
