package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked item belonging to a product line.
//
// InitialQuantity is set alongside Quantity when the product is created and
// is overwritten again on every edit, so it tracks the stock level at the
// last edit rather than a fixed creation-time baseline.
type Product struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Quantity        int             `json:"quantity" db:"quantity"`
	InitialQuantity int             `json:"initial_quantity" db:"initial_quantity"`
	Line            string          `json:"line" db:"line"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
