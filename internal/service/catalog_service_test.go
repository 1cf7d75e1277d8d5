package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mock repositories for testing
type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

type mockSubCategoryRepository struct {
	subCategories map[uuid.UUID]*domain.SubCategory
}

func newMockSubCategoryRepository() *mockSubCategoryRepository {
	return &mockSubCategoryRepository{subCategories: make(map[uuid.UUID]*domain.SubCategory)}
}

func (m *mockSubCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	m.subCategories[subCategory.ID] = subCategory
	return nil
}

func (m *mockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.subCategories, id)
	return nil
}

func (m *mockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, exists := m.subCategories[id]
	if !exists {
		return nil, repository.ErrSubCategoryNotFound
	}
	return subCategory, nil
}

func (m *mockSubCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.SubCategory, error) {
	subCategories := []domain.SubCategory{}
	for _, sub := range m.subCategories {
		if sub.CategoryID == categoryID {
			subCategories = append(subCategories, *sub)
		}
	}
	return subCategories, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		products = append(products, product)
	}
	return products, nil
}

func newTestService() (CatalogService, *mockCategoryRepository, *mockSubCategoryRepository, *mockProductRepository) {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	productRepo := newMockProductRepository()
	svc := NewCatalogService(categoryRepo, subCategoryRepo, productRepo)
	return svc, categoryRepo, subCategoryRepo, productRepo
}

func seedCategoryAndSubCategory(svc CatalogService) (*domain.Category, *domain.SubCategory, error) {
	category, err := svc.CreateCategory(context.Background(), "Electronics", "")
	if err != nil {
		return nil, nil, err
	}
	subCategory, err := svc.CreateSubCategory(context.Background(), "Phones", category.ID)
	if err != nil {
		return nil, nil, err
	}
	return category, subCategory, nil
}

func TestCreateCategoryGeneratesID(t *testing.T) {
	svc, _, _, _ := newTestService()

	category, err := svc.CreateCategory(context.Background(), "Electronics", "http://img")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if category.Name != "Electronics" {
		t.Errorf("expected name Electronics, got %s", category.Name)
	}
	if category.SubCategories == nil || len(category.SubCategories) != 0 {
		t.Error("expected an empty subcategory list")
	}
}

func TestCreateSubCategoryRejectsMissingCategory(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateSubCategory(context.Background(), "Phones", uuid.New())
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestCreateProductRejectsMissingCategory(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:          "Phone",
		Price:         499.99,
		Stock:         10,
		CategoryID:    uuid.New(),
		SubCategoryID: uuid.New(),
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestCreateProductRejectsSubCategoryFromOtherCategory(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, subCategory, err := seedCategoryAndSubCategory(svc)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	otherCategory, err := svc.CreateCategory(context.Background(), "Clothing", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	_, err = svc.CreateProduct(context.Background(), ProductInput{
		Name:          "Phone",
		Price:         499.99,
		Stock:         10,
		CategoryID:    otherCategory.ID,
		SubCategoryID: subCategory.ID,
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for mismatched subcategory, got %v", err)
	}
}

func TestCreateProductRejectsTooManyImages(t *testing.T) {
	svc, _, _, _ := newTestService()

	category, subCategory, err := seedCategoryAndSubCategory(svc)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	images := make([]string, domain.MaxProductImages+1)
	for i := range images {
		images[i] = fmt.Sprintf("http://img/%d", i)
	}

	_, err = svc.CreateProduct(context.Background(), ProductInput{
		Name:          "Phone",
		Price:         1,
		Stock:         1,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
		Images:        images,
	})
	if !errors.Is(err, ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}
}

func TestUpdateProductReplacesAllFields(t *testing.T) {
	svc, _, _, productRepo := newTestService()

	category, subCategory, err := seedCategoryAndSubCategory(svc)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	created, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:          "Phone",
		Description:   "old",
		Price:         499.99,
		Stock:         10,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
		Images:        []string{"u1", "u2"},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	updated, err := svc.UpdateProduct(context.Background(), created.ID, ProductInput{
		Name:          "Phone X",
		Description:   "new",
		Price:         599.99,
		Stock:         5,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
		Images:        []string{"u3"},
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	if updated.ID != created.ID {
		t.Error("update must not change the id")
	}
	if updated.Name != "Phone X" || updated.Description != "new" || updated.Stock != 5 {
		t.Error("scalar fields were not fully replaced")
	}
	if len(updated.Images) != 1 || updated.Images[0] != "u3" {
		t.Errorf("expected image list [u3], got %v", updated.Images)
	}

	stored := productRepo.products[created.ID]
	if len(stored.Images) != 1 || stored.Images[0] != "u3" {
		t.Errorf("stored image list not replaced, got %v", stored.Images)
	}
}

func TestUpdateMissingProductReturnsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	category, subCategory, err := seedCategoryAndSubCategory(svc)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), ProductInput{
		Name:          "Phone",
		Price:         1,
		Stock:         1,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
	})
	if !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProperty_ProductImagesPreserveOrderAndCount(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating a product with N images keeps all N in order", prop.ForAll(
		func(count int) bool {
			svc, _, _, _ := newTestService()

			category, subCategory, err := seedCategoryAndSubCategory(svc)
			if err != nil {
				return false
			}

			images := make([]string, count)
			for i := range images {
				images[i] = fmt.Sprintf("http://img/%d", i)
			}

			product, err := svc.CreateProduct(context.Background(), ProductInput{
				Name:          "Phone",
				Price:         1,
				Stock:         1,
				CategoryID:    category.ID,
				SubCategoryID: subCategory.ID,
				Images:        images,
			})
			if err != nil {
				return false
			}

			if len(product.Images) != count {
				return false
			}
			for i, url := range product.Images {
				if url != images[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, domain.MaxProductImages),
	))

	properties.TestingRun(t)
}

func TestCreateProductWithNilImagesReturnsEmptyList(t *testing.T) {
	svc, _, _, _ := newTestService()

	category, subCategory, err := seedCategoryAndSubCategory(svc)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:          "Phone",
		Price:         1,
		Stock:         1,
		CategoryID:    category.ID,
		SubCategoryID: subCategory.ID,
		Images:        nil,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.Images == nil || len(product.Images) != 0 {
		t.Errorf("expected empty image list, got %v", product.Images)
	}
}
