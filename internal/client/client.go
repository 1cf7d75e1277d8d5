package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"catalog-admin/internal/domain"

	"github.com/google/uuid"
)

// ProductDraft carries all writable product fields for create and update
// calls. The server fills in the id on creation.
type ProductDraft struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	CategoryID    uuid.UUID `json:"categoryId"`
	SubCategoryID uuid.UUID `json:"subCategoryId"`
	Images        []string  `json:"images"`
}

// APIClient defines the calls the admin console makes against the catalog API
type APIClient interface {
	FetchCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name, imageURL string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id uuid.UUID) error
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, draft ProductDraft) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an APIClient for the given base URL (no trailing slash)
func New(baseURL string) APIClient {
	return &apiClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *apiClient) CreateCategory(ctx context.Context, name, imageURL string) (*domain.Category, error) {
	body := map[string]string{"name": name}
	if imageURL != "" {
		body["imageUrl"] = imageURL
	}

	category := &domain.Category{}
	if err := c.do(ctx, http.MethodPost, "/api/categories", body, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *apiClient) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+id.String(), nil, nil)
}

func (c *apiClient) CreateSubCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error) {
	body := map[string]string{
		"name":       name,
		"categoryId": categoryID.String(),
	}

	subCategory := &domain.SubCategory{}
	if err := c.do(ctx, http.MethodPost, "/api/subcategories", body, subCategory); err != nil {
		return nil, err
	}
	return subCategory, nil
}

func (c *apiClient) DeleteSubCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/subcategories/"+id.String(), nil, nil)
}

func (c *apiClient) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *apiClient) CreateProduct(ctx context.Context, draft ProductDraft) (*domain.Product, error) {
	product := &domain.Product{}
	if err := c.do(ctx, http.MethodPost, "/api/products", draft, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *apiClient) UpdateProduct(ctx context.Context, id uuid.UUID, draft ProductDraft) (*domain.Product, error) {
	product := &domain.Product{}
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id.String(), draft, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *apiClient) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id.String(), nil, nil)
}

// do performs one JSON request/response round trip. Non-2xx responses are
// turned into errors carrying the server's error message so the store can
// surface it to the console.
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
