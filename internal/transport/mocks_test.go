package transport

import (
	"context"
	"net/http"
	"sort"
	"time"

	"estoque/internal/domain"
	"estoque/internal/repository"
	"estoque/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository doubles backing real services, so handler tests
// exercise the full decode-validate-service-respond path.

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
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
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year < summaries[j].Year
		}
		return summaries[i].Month < summaries[j].Month
	})
	return summaries, nil
}

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for _, user := range m.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// passthroughSession skips authentication so handler tests can focus on
// request handling. The session gate itself is tested in the middleware
// package.
func passthroughSession(next http.Handler) http.Handler {
	return next
}

type testEnv struct {
	router      chi.Router
	productRepo *mockProductRepository
	saleRepo    *mockSaleRepository
	userRepo    *mockUserRepository
}

func newTestEnv(clock func() time.Time) *testEnv {
	logger := zap.NewNop()
	periods := domain.NewPeriodResolver(clock)

	productRepo := newMockProductRepository()
	saleRepo := newMockSaleRepository(productRepo)
	userRepo := newMockUserRepository()

	inventory := service.NewInventoryService(productRepo)
	sales := service.NewSalesService(productRepo, saleRepo, periods)
	reports := service.NewReportService(saleRepo, periods)
	users := service.NewUserService(userRepo, "test-secret")

	router := chi.NewRouter()
	NewAuthHandler(users, logger).RegisterRoutes(router)
	NewProductHandler(inventory, logger).RegisterRoutes(router, passthroughSession)
	NewSaleHandler(sales, logger).RegisterRoutes(router, passthroughSession)
	NewReportHandler(reports, logger).RegisterRoutes(router, passthroughSession)

	return &testEnv{
		router:      router,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		userRepo:    userRepo,
	}
}
