package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta directa de un producto del inventario (no entregas de agua).
type Sale struct {
	ID        string
	ProductID string
	Quantity  decimal.Decimal
	Amount    decimal.Decimal
	Notes     string
	UserID    string
	CreatedAt time.Time
}
