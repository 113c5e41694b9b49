package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  = "in"
	MovementTypeOut = "out"
)

// InventoryMovement registro de auditoría inmutable de un cambio de stock.
// Lo crea toda operación que afecta inventario: ajuste manual, venta,
// recarga de tanque y consumo FIFO (un movimiento por tanque tocado).
type InventoryMovement struct {
	ID        string
	ProductID string
	Type      string // in | out
	Quantity  decimal.Decimal
	Notes     string
	UserID    string
	CreatedAt time.Time
}
