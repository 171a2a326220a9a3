package service

import (
	"context"
	"sort"
	"time"

	"estoque/internal/domain"
	"estoque/internal/repository"

	"github.com/google/uuid"
)

// In-memory repository doubles shared by the service tests.

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		copied := *product
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Line != products[j].Line {
			return products[i].Line < products[j].Line
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (m *mockProductRepository) ListByLine(ctx context.Context, line string) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		if product.Line == line {
			copied := *product
			products = append(products, &copied)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (m *mockProductRepository) DistinctLines(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	lines := []string{}
	for _, product := range m.products {
		if !seen[product.Line] {
			seen[product.Line] = true
			lines = append(lines, product.Line)
		}
	}
	sort.Strings(lines)
	return lines, nil
}

type mockSaleRepository struct {
	products *mockProductRepository
	sales    map[uuid.UUID]*domain.Sale
}

func newMockSaleRepository(products *mockProductRepository) *mockSaleRepository {
	return &mockSaleRepository{
		products: products,
		sales:    make(map[uuid.UUID]*domain.Sale),
	}
}

// Record mirrors the real repository's transactional contract: the stock
// decrement and the sale insert either both happen or neither does.
func (m *mockSaleRepository) Record(ctx context.Context, sale *domain.Sale) error {
	product, exists := m.products.products[sale.ProductID]
	if !exists {
		return repository.ErrProductNotFound
	}
	if product.Quantity < sale.Quantity {
		return repository.ErrInsufficientStock
	}
	product.Quantity -= sale.Quantity
	copied := *sale
	m.sales[sale.ID] = &copied
	return nil
}

func (m *mockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.sales[id]; !exists {
		return repository.ErrSaleNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	sale, exists := m.sales[id]
	if !exists {
		return nil, repository.ErrSaleNotFound
	}
	copied := *sale
	return &copied, nil
}

func (m *mockSaleRepository) FindByDate(ctx context.Context, date time.Time) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}
	for _, sale := range m.sales {
		if sale.SoldOn.Equal(date) {
			copied := *sale
			sales = append(sales, &copied)
		}
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].CreatedAt.Before(sales[j].CreatedAt)
	})
	return sales, nil
}

func (m *mockSaleRepository) FindByPeriod(ctx context.Context, period domain.Period) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}
	for _, sale := range m.sales {
		if sale.Month == period.Month && sale.Year == period.Year {
			copied := *sale
			sales = append(sales, &copied)
		}
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].SoldOn.Before(sales[j].SoldOn)
	})
	return sales, nil
}

func (m *mockSaleRepository) SummarizeByPeriod(ctx context.Context) ([]*domain.PeriodSummary, error) {
	buckets := make(map[domain.Period]*domain.PeriodSummary)
	for _, sale := range m.sales {
		key := domain.Period{Month: sale.Month, Year: sale.Year}
		summary, exists := buckets[key]
		if !exists {
			summary = &domain.PeriodSummary{Month: sale.Month, Year: sale.Year}
			buckets[key] = summary
		}
		summary.Quantity += sale.Quantity
		summary.Total = summary.Total.Add(sale.Total)
	}

	summaries := []*domain.PeriodSummary{}
	for _, summary := range buckets {
		summaries = append(summaries, summary)
	}
	// Year ascending, then month name lexically, same as the SQL ordering
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year < summaries[j].Year
		}
		return summaries[i].Month < summaries[j].Month
	})
	return summaries, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
