package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLitersPerBottle factor de conversión litros/botellón por defecto.
var DefaultLitersPerBottle = decimal.NewFromInt(20)

// Tank metadata operativa sobre un producto volumétrico (unit=litro).
// Los tanques activos y no eliminados forman la cola FIFO de consumo,
// ordenada por fecha de creación ascendente.
// Invariante: un tanque activo no puede eliminarse (ni lógicamente); primero desactivar.
type Tank struct {
	ID              string
	ProductID       string
	LitersPerBottle decimal.Decimal // litros consumidos por botellón llenado
	PricePerFill    decimal.Decimal // precio cobrado por botellón llenado
	Active          bool            // participa en el consumo FIFO
	Deleted         bool            // eliminación lógica: excluido de todas las vistas
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TankWithProduct tanque junto a su producto (join para el motor FIFO y el resumen).
type TankWithProduct struct {
	Tank    Tank
	Product Product
}
