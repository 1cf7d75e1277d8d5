package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrInvalidReference marks a write that points at a missing or
	// mismatched parent entity. Handlers map it to a 400 instead of the
	// generic 500.
	ErrInvalidReference = errors.New("invalid entity reference")

	ErrTooManyImages = fmt.Errorf("a product can have at most %d images", domain.MaxProductImages)
)

// CatalogService defines the business logic for the catalog
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, imageURL string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductInput carries all writable product fields. Updates use full-replace
// semantics, so the same shape serves create and update.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	Stock         int
	CategoryID    uuid.UUID
	SubCategoryID uuid.UUID
	Images        []string
}

type catalogService struct {
	categoryRepo    repository.CategoryRepository
	subCategoryRepo repository.SubCategoryRepository
	productRepo     repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogService{
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		productRepo:     productRepo,
	}
}

// ListCategories returns all categories with subcategories nested inline
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CreateCategory creates a category with a generated id
func (s *catalogService) CreateCategory(ctx context.Context, name, imageURL string) (*domain.Category, error) {
	category := &domain.Category{
		ID:            uuid.New(),
		Name:          name,
		ImageURL:      imageURL,
		SubCategories: []domain.SubCategory{},
		CreatedAt:     time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category; the storage layer cascades the delete
// to subcategories, products and product images.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// CreateSubCategory verifies the parent category exists before inserting,
// surfacing a referential error instead of a storage failure.
func (s *catalogService) CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, fmt.Errorf("%w: category %s does not exist", ErrInvalidReference, categoryID)
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	subCategory := &domain.SubCategory{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
		CreatedAt:  time.Now(),
	}

	if err := s.subCategoryRepo.Create(ctx, subCategory); err != nil {
		return nil, err
	}

	return subCategory, nil
}

// DeleteSubCategory removes a subcategory; products cascade at the storage layer
func (s *catalogService) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	return s.subCategoryRepo.Delete(ctx, id)
}

// ListProducts returns all products with their ordered image lists
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// CreateProduct validates references and the image cap, then inserts the
// product and its image rows.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Stock:         input.Stock,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Images:        normalizeImages(input.Images),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct overwrites all product fields and replaces the image list
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:            id,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Stock:         input.Stock,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Images:        normalizeImages(input.Images),
		CreatedAt:     existing.CreatedAt,
		UpdatedAt:     time.Now(),
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product; image rows cascade at the storage layer
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// validateProductInput checks the image cap and that the referenced
// subcategory exists and belongs to the referenced category.
func (s *catalogService) validateProductInput(ctx context.Context, input ProductInput) error {
	if len(input.Images) > domain.MaxProductImages {
		return ErrTooManyImages
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return fmt.Errorf("%w: category %s does not exist", ErrInvalidReference, input.CategoryID)
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}

	subCategory, err := s.subCategoryRepo.FindByID(ctx, input.SubCategoryID)
	if err != nil {
		if err == repository.ErrSubCategoryNotFound {
			return fmt.Errorf("%w: subcategory %s does not exist", ErrInvalidReference, input.SubCategoryID)
		}
		return fmt.Errorf("failed to verify subcategory: %w", err)
	}

	if subCategory.CategoryID != input.CategoryID {
		return fmt.Errorf("%w: subcategory %s does not belong to category %s",
			ErrInvalidReference, input.SubCategoryID, input.CategoryID)
	}

	return nil
}

func normalizeImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
