package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// CreateTankRequest body para POST /api/tanks.
type CreateTankRequest struct {
	Name            string          `json:"name" validate:"required"`
	Capacity        decimal.Decimal `json:"capacity" validate:"required"`
	InitialLiters   decimal.Decimal `json:"initial_liters"`
	LitersPerBottle decimal.Decimal `json:"liters_per_bottle"` // por defecto 20
	PricePerFill    decimal.Decimal `json:"price_per_fill"`
	Active          bool            `json:"active"`
}

// UpdateTankRequest body para PUT /api/tanks/:id (nil = sin cambio).
type UpdateTankRequest struct {
	LitersPerBottle *decimal.Decimal `json:"liters_per_bottle,omitempty"`
	PricePerFill    *decimal.Decimal `json:"price_per_fill,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

// RechargeTankRequest body para POST /api/tanks/:id/recharge.
type RechargeTankRequest struct {
	Liters decimal.Decimal `json:"liters" validate:"required"`
}

// FillRequest body para POST /api/tanks/fill. house_id es opcional: sin casa
// el llenado es un drenado puro (no genera deuda ni entrega).
type FillRequest struct {
	HouseID     string `json:"house_id"`
	Botellones  int    `json:"botellones" validate:"required,min=1"`
	UsedPrepaid bool   `json:"used_prepaid"`
	Notes       string `json:"notes"`
}

// TankResponse tanque en respuestas.
type TankResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name,omitempty"`
	LitersPerBottle decimal.Decimal `json:"liters_per_bottle"`
	PricePerFill    decimal.Decimal `json:"price_per_fill"`
	Active          bool            `json:"active"`
	Liters          decimal.Decimal `json:"liters"`
	Capacity        decimal.Decimal `json:"capacity"`
	LevelPercent    int             `json:"level_percent"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTankResponse convierte tanque + producto a DTO.
func ToTankResponse(tw *entity.TankWithProduct) TankResponse {
	return TankResponse{
		ID:              tw.Tank.ID,
		ProductID:       tw.Product.ID,
		Name:            tw.Product.Name,
		LitersPerBottle: tw.Tank.LitersPerBottle,
		PricePerFill:    tw.Tank.PricePerFill,
		Active:          tw.Tank.Active,
		Liters:          tw.Product.Quantity,
		Capacity:        tw.Product.Capacity,
		LevelPercent:    tw.Product.LevelPercent(),
		CreatedAt:       tw.Tank.CreatedAt,
	}
}

// RechargeMovementDTO recarga en el historial del resumen.
type RechargeMovementDTO struct {
	ID        string          `json:"id"`
	Liters    decimal.Decimal `json:"liters"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// TankSummaryResponse estado de un tanque con su historial de recargas.
type TankSummaryResponse struct {
	TankResponse
	Recharges []RechargeMovementDTO `json:"recharges"`
}

// ToTankSummaryResponse convierte el resumen.
func ToTankSummaryResponse(s *tanks.TankSummary) TankSummaryResponse {
	out := TankSummaryResponse{
		TankResponse: ToTankResponse(&entity.TankWithProduct{Tank: s.Tank, Product: s.Product}),
		Recharges:    make([]RechargeMovementDTO, len(s.Recharges)),
	}
	for i, m := range s.Recharges {
		out.Recharges[i] = RechargeMovementDTO{
			ID:        m.ID,
			Liters:    m.Quantity,
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}

// RechargeResultResponse resultado de una recarga.
type RechargeResultResponse struct {
	Added        decimal.Decimal `json:"added"`
	Liters       decimal.Decimal `json:"liters"`
	LevelPercent int             `json:"level_percent"`
}
