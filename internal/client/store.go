package client

import (
	"context"
	"sync"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
)

// State is a point-in-time view of the console's mirror of the catalog.
// The mirror is a read replica for rendering only; the server owns the data
// and every successful action replaces the affected entries wholesale.
type State struct {
	Categories []domain.Category
	Products   []domain.Product
	Loading    bool
	Error      string
}

// Store caches categories and products on the console side and keeps them in
// sync with the catalog API. Every mutating action follows the same shape:
// loading on, error cleared, API call, merge on success, record message on
// failure, loading off.
//
// Construct one per session and inject it; it is not a package singleton.
type Store struct {
	api APIClient

	mu         sync.Mutex
	categories []domain.Category
	products   []domain.Product
	loading    bool
	errMsg     string
}

// NewStore creates a Store backed by the given API client
func NewStore(api APIClient) *Store {
	return &Store{
		api:        api,
		categories: []domain.Category{},
		products:   []domain.Product{},
	}
}

// Snapshot returns a copy of the current state for rendering
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]domain.Category, len(s.categories))
	copy(categories, s.categories)
	products := make([]domain.Product, len(s.products))
	copy(products, s.products)

	return State{
		Categories: categories,
		Products:   products,
		Loading:    s.loading,
		Error:      s.errMsg,
	}
}

// FetchCategories replaces the category mirror with the server's list
func (s *Store) FetchCategories(ctx context.Context) error {
	s.begin()
	defer s.finish()

	categories, err := s.api.FetchCategories(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// FetchProducts replaces the product mirror with the server's list
func (s *Store) FetchProducts(ctx context.Context) error {
	s.begin()
	defer s.finish()

	products, err := s.api.FetchProducts(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

// AddCategory creates a category and appends the server's echo to the mirror
func (s *Store) AddCategory(ctx context.Context, name, imageURL string) error {
	s.begin()
	defer s.finish()

	category, err := s.api.CreateCategory(ctx, name, imageURL)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.categories = append(append([]domain.Category{}, s.categories...), *category)
	s.mu.Unlock()
	return nil
}

// AddSubCategory creates a subcategory and nests it under its parent in the
// mirror. Only the owning category's entry is rebuilt.
func (s *Store) AddSubCategory(ctx context.Context, name string, parentID uuid.UUID) error {
	s.begin()
	defer s.finish()

	subCategory, err := s.api.CreateSubCategory(ctx, name, parentID)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	next := make([]domain.Category, len(s.categories))
	for i, category := range s.categories {
		if category.ID == parentID {
			subs := append(append([]domain.SubCategory{}, category.SubCategories...), *subCategory)
			category.SubCategories = subs
		}
		next[i] = category
	}
	s.categories = next
	s.mu.Unlock()
	return nil
}

// AddProduct creates a product and appends the server's echo to the mirror
func (s *Store) AddProduct(ctx context.Context, draft ProductDraft) error {
	s.begin()
	defer s.finish()

	product, err := s.api.CreateProduct(ctx, draft)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.products = append(append([]domain.Product{}, s.products...), *product)
	s.mu.Unlock()
	return nil
}

// UpdateProduct replaces the matching mirror entry with the server's echo
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, draft ProductDraft) error {
	s.begin()
	defer s.finish()

	updated, err := s.api.UpdateProduct(ctx, id, draft)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	next := make([]domain.Product, len(s.products))
	for i, product := range s.products {
		if product.ID == id {
			next[i] = *updated
		} else {
			next[i] = product
		}
	}
	s.products = next
	s.mu.Unlock()
	return nil
}

// DeleteProduct removes the product from the mirror by id
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.begin()
	defer s.finish()

	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	next := []domain.Product{}
	for _, product := range s.products {
		if product.ID != id {
			next = append(next, product)
		}
	}
	s.products = next
	s.mu.Unlock()
	return nil
}

// DeleteCategory removes the category from the mirror. Products under it are
// gone server-side too; the next FetchProducts reflects that.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.begin()
	defer s.finish()

	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	next := []domain.Category{}
	for _, category := range s.categories {
		if category.ID != id {
			next = append(next, category)
		}
	}
	s.categories = next
	s.mu.Unlock()
	return nil
}

// DeleteSubCategory removes the subcategory from its owning category only.
// Other categories' subcategory lists are left untouched even if an id were
// ever duplicated across parents.
func (s *Store) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	s.begin()
	defer s.finish()

	if err := s.api.DeleteSubCategory(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	next := make([]domain.Category, len(s.categories))
	for i, category := range s.categories {
		if owns(category, id) {
			subs := []domain.SubCategory{}
			for _, sub := range category.SubCategories {
				if sub.ID != id {
					subs = append(subs, sub)
				}
			}
			category.SubCategories = subs
		}
		next[i] = category
	}
	s.categories = next
	s.mu.Unlock()
	return nil
}

func owns(category domain.Category, subCategoryID uuid.UUID) bool {
	for _, sub := range category.SubCategories {
		if sub.ID == subCategoryID {
			return true
		}
	}
	return false
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) finish() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.errMsg = err.Error()
	s.mu.Unlock()
	return err
}
