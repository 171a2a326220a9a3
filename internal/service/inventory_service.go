package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estoque/internal/domain"
	"estoque/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired = errors.New("product name is required")
	ErrLineRequired = errors.New("product line is required")
)

// InventoryService defines the interface for product/stock business logic.
// Stock decrements are not exposed here; they happen only inside the sale
// transaction owned by SalesService.
type InventoryService interface {
	AddProduct(ctx context.Context, name, description string, price decimal.Decimal, quantity int, line string) (*domain.Product, error)
	EditProduct(ctx context.Context, id uuid.UUID, name string, price decimal.Decimal, quantity int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	ListProductsByLine(ctx context.Context, line string) ([]*domain.Product, error)
	ProductLines(ctx context.Context) ([]string, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

// AddProduct creates a product with its initial quantity set equal to the
// starting quantity.
func (s *inventoryService) AddProduct(ctx context.Context, name, description string, price decimal.Decimal, quantity int, line string) (*domain.Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if line == "" {
		return nil, ErrLineRequired
	}

	product := &domain.Product{
		ID:              uuid.New(),
		Name:            name,
		Description:     description,
		Price:           price,
		Quantity:        quantity,
		InitialQuantity: quantity,
		Line:            line,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	return product, nil
}

// EditProduct overwrites name, price and quantity. The initial quantity is
// reset to the edited quantity as well, so it reflects the stock level at
// the last edit rather than at creation.
func (s *inventoryService) EditProduct(ctx context.Context, id uuid.UUID, name string, price decimal.Decimal, quantity int) (*domain.Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.Price = price
	product.Quantity = quantity
	product.InitialQuantity = quantity
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product. Existing sales that reference it are
// left in place.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetProduct retrieves a single product
func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts retrieves all products ordered by line then name
func (s *inventoryService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.List(ctx)
}

// ListProductsByLine retrieves the products of one line
func (s *inventoryService) ListProductsByLine(ctx context.Context, line string) ([]*domain.Product, error) {
	if line == "" {
		return nil, ErrLineRequired
	}
	return s.productRepo.ListByLine(ctx, line)
}

// ProductLines retrieves the distinct lines currently in use
func (s *inventoryService) ProductLines(ctx context.Context) ([]string, error) {
	return s.productRepo.DistinctLines(ctx)
}
