package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto permitidas. Cualquier otra entrada se normaliza a Otros.
const (
	CategoryTank     = "Llenado Tanque"
	CategoryBottles  = "Botellones"
	CategoryCleaning = "Artículos de limpieza"
	CategoryOther    = "Otros"
)

// Unidades de medida.
const (
	UnitPiece = "unidad"
	UnitLiter = "litro"
)

// Product representa un ítem del inventario. Para la categoría Llenado Tanque
// la cantidad se lleva en litros y Capacity (litros) es obligatoria; el tanque
// operativo asociado vive en Tank (relación 1:1).
type Product struct {
	ID        string
	Name      string
	Type      string // ej. botellon, limpiador, accesorio
	Category  string
	Unit      string
	Quantity  decimal.Decimal // stock actual (unidades o litros según Unit)
	Price     decimal.Decimal
	Capacity  decimal.Decimal // capacidad del tanque en litros (solo categoría tanque)
	MinStock  decimal.Decimal // umbral de stock mínimo para alertas
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTank indica si el producto es de categoría tanque.
func (p *Product) IsTank() bool {
	return p.Category == CategoryTank
}

// LevelPercent porcentaje de llenado respecto a la capacidad (0 si no hay capacidad).
func (p *Product) LevelPercent() int {
	if !p.Capacity.IsPositive() {
		return 0
	}
	pct := p.Quantity.Div(p.Capacity).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// NormalizeCategory devuelve la categoría permitida o Otros.
func NormalizeCategory(category string) string {
	switch category {
	case CategoryTank, CategoryBottles, CategoryCleaning:
		return category
	default:
		return CategoryOther
	}
}
