package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records a quantity sold against a product. UnitPrice, Total and the
// Month/Year bucket are snapshots taken when the sale is written and are
// never recomputed, so reports stay accurate even if the product's price
// changes later or the product is deleted.
type Sale struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Total     decimal.Decimal `json:"total" db:"total"`
	SoldOn    time.Time       `json:"sold_on" db:"sold_on"`
	Month     string          `json:"month" db:"month"`
	Year      int             `json:"year" db:"year"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// PeriodSummary is one row of the historical report: all sales of a single
// (month, year) bucket rolled up.
type PeriodSummary struct {
	Month    string          `json:"month" db:"month"`
	Year     int             `json:"year" db:"year"`
	Quantity int             `json:"quantity" db:"quantity"`
	Total    decimal.Decimal `json:"total" db:"total"`
}
