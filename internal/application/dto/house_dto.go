package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// CreateHouseRequest body para POST /api/houses.
type CreateHouseRequest struct {
	Code      string `json:"code" validate:"required"`
	Number    string `json:"number"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

// HouseResponse casa en respuestas.
type HouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Number    string    `json:"number,omitempty"`
	OwnerName string    `json:"owner_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToHouseResponse convierte la entidad a DTO.
func ToHouseResponse(h *entity.House) HouseResponse {
	return HouseResponse{
		ID:        h.ID,
		Code:      h.Code,
		Number:    h.Number,
		OwnerName: h.OwnerName,
		Phone:     h.Phone,
		Email:     h.Email,
		Address:   h.Address,
		Notes:     h.Notes,
		CreatedAt: h.CreatedAt,
	}
}

// ToHouseResponses convierte la lista.
func ToHouseResponses(hs []*entity.House) []HouseResponse {
	out := make([]HouseResponse, len(hs))
	for i, h := range hs {
		out[i] = ToHouseResponse(h)
	}
	return out
}

// HouseDetailResponse vista completa de la casa.
type HouseDetailResponse struct {
	House      HouseResponse          `json:"house"`
	Payments   []PaymentResponse      `json:"payments"`
	Deliveries []DeliveryResponse     `json:"deliveries"`
	Balance    PrepaidBalanceResponse `json:"prepaid_balance"`
}

// HouseDebtResponse deuda pendiente de la casa.
type HouseDebtResponse struct {
	HouseID  string            `json:"house_id"`
	Total    decimal.Decimal   `json:"total"`
	Pendings []PaymentResponse `json:"pendings"`
}

// HousePayRequest body para POST /api/houses/:id/pay.
// Targets y apply_to_oldest requieren rol admin.
type HousePayRequest struct {
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Description       string          `json:"description"`
	PrepaidBotellones int             `json:"prepaid_botellones" validate:"min=0"`
	IdempotencyKey    string          `json:"idempotency_key,omitempty"`
	Targets           []TargetRef     `json:"targets,omitempty"`
	ApplyToOldest     bool            `json:"apply_to_oldest"`
}
