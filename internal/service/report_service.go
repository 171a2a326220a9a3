package service

import (
	"context"
	"time"

	"estoque/internal/domain"
	"estoque/internal/repository"

	"github.com/shopspring/decimal"
)

// DailyReport lists the sales of one calendar date with their sums.
type DailyReport struct {
	Date     string          `json:"date"`
	Sales    []*domain.Sale  `json:"sales"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

// MonthlyReport lists the sales stored under one period bucket with their
// sums.
type MonthlyReport struct {
	Period   domain.Period   `json:"period"`
	Sales    []*domain.Sale  `json:"sales"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

// ReportService defines the interface for sales report queries
type ReportService interface {
	// Daily reports on one date; empty means today, anything else must
	// parse as YYYY-MM-DD.
	Daily(ctx context.Context, date string) (*DailyReport, error)
	Monthly(ctx context.Context, period domain.Period) (*MonthlyReport, error)
	CurrentMonth(ctx context.Context) (*MonthlyReport, error)
	PreviousMonth(ctx context.Context) (*MonthlyReport, error)
	// History returns one summary row per (month, year) bucket over all
	// sales, ordered by year and then lexically by month name.
	History(ctx context.Context) ([]*domain.PeriodSummary, error)
}

type reportService struct {
	saleRepo repository.SaleRepository
	periods  *domain.PeriodResolver
}

// NewReportService creates a new instance of ReportService
func NewReportService(saleRepo repository.SaleRepository, periods *domain.PeriodResolver) ReportService {
	return &reportService{
		saleRepo: saleRepo,
		periods:  periods,
	}
}

// Daily reports all sales recorded for the given date plus summed total and
// quantity.
func (s *reportService) Daily(ctx context.Context, date string) (*DailyReport, error) {
	day := s.periods.Today()
	if date != "" {
		parsed, err := time.Parse(SaleDateLayout, date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		day = parsed
	}

	sales, err := s.saleRepo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	total, quantity := sumSales(sales)

	return &DailyReport{
		Date:     day.Format(SaleDateLayout),
		Sales:    sales,
		Total:    total,
		Quantity: quantity,
	}, nil
}

// Monthly reports all sales stored under the given bucket plus sums.
func (s *reportService) Monthly(ctx context.Context, period domain.Period) (*MonthlyReport, error) {
	sales, err := s.saleRepo.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	total, quantity := sumSales(sales)

	return &MonthlyReport{
		Period:   period,
		Sales:    sales,
		Total:    total,
		Quantity: quantity,
	}, nil
}

// CurrentMonth reports on the bucket today falls into
func (s *reportService) CurrentMonth(ctx context.Context) (*MonthlyReport, error) {
	return s.Monthly(ctx, s.periods.Current())
}

// PreviousMonth reports on the previous calendar month's bucket
func (s *reportService) PreviousMonth(ctx context.Context) (*MonthlyReport, error) {
	return s.Monthly(ctx, s.periods.Previous())
}

// History returns the all-time per-bucket summary
func (s *reportService) History(ctx context.Context) ([]*domain.PeriodSummary, error) {
	return s.saleRepo.SummarizeByPeriod(ctx)
}

func sumSales(sales []*domain.Sale) (decimal.Decimal, int) {
	total := decimal.Zero
	quantity := 0
	for _, sale := range sales {
		total = total.Add(sale.Total)
		quantity += sale.Quantity
	}
	return total, quantity
}
