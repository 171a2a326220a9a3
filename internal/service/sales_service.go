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

// SaleDateLayout is the only accepted format for explicit sale and report
// dates.
const SaleDateLayout = "2006-01-02"

var (
	ErrQuantityInvalid = errors.New("sale quantity must be positive")
	ErrInvalidDate     = errors.New("invalid date, expected format YYYY-MM-DD")
)

// SalesService defines the interface for sale business logic
type SalesService interface {
	// RecordSale sells quantity units of a product. saleDate is optional:
	// empty means today, anything else must parse as YYYY-MM-DD.
	RecordSale(ctx context.Context, productID uuid.UUID, quantity int, saleDate string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
}

type salesService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	periods     *domain.PeriodResolver
}

// NewSalesService creates a new instance of SalesService
func NewSalesService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	periods *domain.PeriodResolver,
) SalesService {
	return &salesService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		periods:     periods,
	}
}

// RecordSale validates the request against current stock, snapshots the
// product's price and the date's period bucket onto the sale, then commits
// the sale insert and the stock decrement as one transaction. On any error
// nothing is mutated.
func (s *salesService) RecordSale(ctx context.Context, productID uuid.UUID, quantity int, saleDate string) (*domain.Sale, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	if quantity > product.Quantity {
		return nil, repository.ErrInsufficientStock
	}

	soldOn, err := s.resolveSaleDate(saleDate)
	if err != nil {
		return nil, err
	}

	period := s.periods.Resolve(soldOn)
	unitPrice := product.Price
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	sale := &domain.Sale{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     total,
		SoldOn:    soldOn,
		Month:     period.Month,
		Year:      period.Year,
		CreatedAt: time.Now(),
	}

	if err := s.saleRepo.Record(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	return sale, nil
}

// DeleteSale removes a sale record. The sold quantity is NOT returned to
// the product's stock.
func (s *salesService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.saleRepo.Delete(ctx, id)
}

// GetSale retrieves a single sale
func (s *salesService) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.saleRepo.FindByID(ctx, id)
}

func (s *salesService) resolveSaleDate(saleDate string) (time.Time, error) {
	if saleDate == "" {
		return s.periods.Today(), nil
	}

	soldOn, err := time.Parse(SaleDateLayout, saleDate)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return soldOn, nil
}
