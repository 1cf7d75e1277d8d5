package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products and owns a set of subcategories. Deleting a
// category cascades to its subcategories, products and product images.
type Category struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	ImageURL      string        `json:"imageUrl,omitempty" db:"image_url"`
	SubCategories []SubCategory `json:"subCategories" db:"-"`
	CreatedAt     time.Time     `json:"-" db:"created_at"`
}

// SubCategory belongs to exactly one category.
type SubCategory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CategoryID uuid.UUID `json:"categoryId" db:"category_id"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

// Product carries an ordered list of up to MaxProductImages image URLs,
// stored as product_images rows and flattened on the wire.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	Stock         int       `json:"stock" db:"stock"`
	CategoryID    uuid.UUID `json:"categoryId" db:"category_id"`
	SubCategoryID uuid.UUID `json:"subCategoryId" db:"sub_category_id"`
	Images        []string  `json:"images" db:"-"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
	UpdatedAt     time.Time `json:"-" db:"updated_at"`
}

// ProductImage is one image row of a product. Position preserves the order
// the URLs were submitted in.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	Position  int       `json:"position" db:"position"`
}

// MaxProductImages caps the number of images attached to a single product.
const MaxProductImages = 4
