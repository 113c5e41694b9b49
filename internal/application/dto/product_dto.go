package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Type     string          `json:"type"`
	Category string          `json:"category"` // se normaliza a las permitidas
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Capacity decimal.Decimal `json:"capacity"` // obligatoria para categoría tanque
	MinStock decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest body para PUT /api/products/:id (nil = sin cambio).
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty"`
	Type     *string          `json:"type,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// AdjustStockRequest body para POST /api/products/:id/adjust.
// Delta positivo = entrada; negativo = salida.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" validate:"required"`
	Notes string          `json:"notes"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Capacity  decimal.Decimal `json:"capacity,omitempty"`
	MinStock  decimal.Decimal `json:"min_stock,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Category:  p.Category,
		Unit:      p.Unit,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Capacity:  p.Capacity,
		MinStock:  p.MinStock,
		CreatedAt: p.CreatedAt,
	}
}

// ToProductResponses convierte la lista.
func ToProductResponses(ps []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = ToProductResponse(p)
	}
	return out
}

// MovementResponse movimiento de inventario en respuestas.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToMovementResponses convierte la lista.
func ToMovementResponses(ms []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Notes:     m.Notes,
			UserID:    m.UserID,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Notes     string          `json:"notes"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToSaleResponse convierte la entidad a DTO.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:        s.ID,
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Amount:    s.Amount,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}

// ToSaleResponses convierte la lista.
func ToSaleResponses(ss []*entity.Sale) []SaleResponse {
	out := make([]SaleResponse, len(ss))
	for i, s := range ss {
		out[i] = ToSaleResponse(s)
	}
	return out
}
