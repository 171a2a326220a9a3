package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"estoque/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock for sale")
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// Record persists the sale and decrements the product's stock in a
	// single transaction; either both writes commit or neither does.
	Record(ctx context.Context, sale *domain.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error)
	FindByDate(ctx context.Context, date time.Time) ([]*domain.Sale, error)
	FindByPeriod(ctx context.Context, period domain.Period) ([]*domain.Sale, error)
	SummarizeByPeriod(ctx context.Context) ([]*domain.PeriodSummary, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Record inserts the sale and takes the sold quantity off the product's
// stock. The decrement is guarded by `quantity >= $2` so a concurrent sale
// of the same product can never drive stock negative; when the guard trips
// the whole transaction rolls back and ErrInsufficientStock is returned.
func (r *saleRepository) Record(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND quantity >= $2
	`, sale.ProductID, sale.Quantity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to decrement product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the product is gone or the guard tripped.
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, sale.ProductID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check product existence: %w", err)
		}
		if !exists {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, product_id, quantity, unit_price, total, sold_on, month, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		sale.ID,
		sale.ProductID,
		sale.Quantity,
		sale.UnitPrice,
		sale.Total,
		sale.SoldOn,
		sale.Month,
		sale.Year,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale transaction: %w", err)
	}

	return nil
}

// Delete removes a sale record. Product stock is not restored; deleting a
// sale is a ledger-record removal, not an inventory reversal.
func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sales WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// FindByID retrieves a sale by ID using parameterized queries
func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `
		SELECT id, product_id, quantity, unit_price, total, sold_on, month, year, created_at
		FROM sales
		WHERE id = $1
	`

	sale := &domain.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.ProductID,
		&sale.Quantity,
		&sale.UnitPrice,
		&sale.Total,
		&sale.SoldOn,
		&sale.Month,
		&sale.Year,
		&sale.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}

	return sale, nil
}

// FindByDate retrieves all sales whose stored date matches exactly
func (r *saleRepository) FindByDate(ctx context.Context, date time.Time) ([]*domain.Sale, error) {
	query := `
		SELECT id, product_id, quantity, unit_price, total, sold_on, month, year, created_at
		FROM sales
		WHERE sold_on = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales by date: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// FindByPeriod retrieves all sales stored under the given (month, year)
// bucket. The bucket is matched as written at sale time, not recomputed
// from the sale date.
func (r *saleRepository) FindByPeriod(ctx context.Context, period domain.Period) ([]*domain.Sale, error) {
	query := `
		SELECT id, product_id, quantity, unit_price, total, sold_on, month, year, created_at
		FROM sales
		WHERE month = $1 AND year = $2
		ORDER BY sold_on ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales by period: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// SummarizeByPeriod groups all sales by (month, year) with summed quantity
// and total. Month is a varchar column, so within a year buckets come back
// in lexical month-name order ("Abril" before "Agosto"), matching the
// established report ordering.
func (r *saleRepository) SummarizeByPeriod(ctx context.Context) ([]*domain.PeriodSummary, error) {
	query := `
		SELECT month, year, SUM(quantity) AS quantity, SUM(total) AS total
		FROM sales
		GROUP BY month, year
		ORDER BY year ASC, month ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.PeriodSummary{}
	for rows.Next() {
		summary := &domain.PeriodSummary{}
		err := rows.Scan(
			&summary.Month,
			&summary.Year,
			&summary.Quantity,
			&summary.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period summaries: %w", err)
	}

	return summaries, nil
}

func scanSales(rows *sql.Rows) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		err := rows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.Quantity,
			&sale.UnitPrice,
			&sale.Total,
			&sale.SoldOn,
			&sale.Month,
			&sale.Year,
			&sale.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}
