package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSubCategoryNotFound = errors.New("subcategory not found")
)

// SubCategoryRepository defines the interface for subcategory data access
type SubCategoryRepository interface {
	Create(ctx context.Context, subCategory *domain.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.SubCategory, error)
}

type subCategoryRepository struct {
	db *sql.DB
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(db *sql.DB) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

// Create inserts a new subcategory into the database using parameterized queries
func (r *subCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	query := `
		INSERT INTO subcategories (id, name, category_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.CategoryID,
		subCategory.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", err)
	}

	return nil
}

// Delete removes a subcategory; its products cascade away at the storage
// layer. Deleting an absent id is a no-op.
func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subcategories WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	return nil
}

// FindByID retrieves a subcategory by ID using parameterized queries
func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := `
		SELECT id, name, category_id, created_at
		FROM subcategories
		WHERE id = $1
	`

	subCategory := &domain.SubCategory{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&subCategory.ID,
		&subCategory.Name,
		&subCategory.CategoryID,
		&subCategory.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find subcategory by ID: %w", err)
	}

	return subCategory, nil
}

// ListByCategory retrieves the subcategories of one category
func (r *subCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.SubCategory, error) {
	query := `
		SELECT id, name, category_id, created_at
		FROM subcategories
		WHERE category_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subCategories := []domain.SubCategory{}
	for rows.Next() {
		sub := domain.SubCategory{}
		err := rows.Scan(&sub.ID, &sub.Name, &sub.CategoryID, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subCategories = append(subCategories, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subCategories, nil
}
