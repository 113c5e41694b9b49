package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
)

// TargetRef referencia a un pago destino en cuerpos de aplicación. Acepta dos
// formas JSON equivalentes: el id a secas ("abc") o el objeto con pista de
// monto ({"id":"abc","amount":"12.50"}). Se normaliza aquí, en el borde HTTP,
// para que el resto del sistema trabaje con una sola forma.
type TargetRef struct {
	ID     string           `json:"id"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// UnmarshalJSON acepta string u objeto.
func (t *TargetRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		t.ID = id
		t.Amount = nil
		return nil
	}
	type alias TargetRef
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ID == "" {
		return domain.ErrInvalidInput
	}
	*t = TargetRef(obj)
	return nil
}

// ToTargets convierte las referencias del borde al tipo de dominio.
func ToTargets(refs []TargetRef) []idempotency.Target {
	out := make([]idempotency.Target, len(refs))
	for i, r := range refs {
		out[i] = idempotency.Target{ID: r.ID, Amount: r.Amount}
	}
	return out
}

// CreatePaymentRequest body para POST /api/payments.
type CreatePaymentRequest struct {
	HouseID           string          `json:"house_id" validate:"required"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Description       string          `json:"description"`
	PrepaidBotellones int             `json:"prepaid_botellones" validate:"min=0"`
	Confirmed         bool            `json:"confirmed"`
	IdempotencyKey    string          `json:"idempotency_key,omitempty"` // opcional; si falta se deriva del cuerpo
	Targets           []TargetRef     `json:"targets,omitempty"`
}

// ConfirmPaymentRequest body para POST /api/payments/:id/confirm.
// Todos los datos bancarios son obligatorios.
type ConfirmPaymentRequest struct {
	Reference      string `json:"reference" validate:"required"`
	Bank           string `json:"bank" validate:"required"`
	Identification string `json:"identification" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
}

// ApplyPaymentRequest body para POST /api/payments/:id/apply.
type ApplyPaymentRequest struct {
	Targets       []TargetRef `json:"targets,omitempty"`
	ApplyToOldest bool        `json:"apply_to_oldest"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID                string          `json:"id"`
	HouseID           string          `json:"house_id"`
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description,omitempty"`
	PrepaidBotellones int             `json:"prepaid_botellones,omitempty"`
	Confirmed         bool            `json:"confirmed"`
	ConfirmedAt       *time.Time      `json:"confirmed_at,omitempty"`
	Settled           bool            `json:"settled"`
	SettledBy         string          `json:"settled_by,omitempty"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	AppliedAmount     decimal.Decimal `json:"applied_amount"`
	Reference         string          `json:"reference,omitempty"`
	Bank              string          `json:"bank,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToPaymentResponse convierte la entidad a DTO.
func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		HouseID:           p.HouseID,
		Amount:            p.Amount,
		Date:              p.Date,
		Description:       p.Description,
		PrepaidBotellones: p.PrepaidBotellones,
		Confirmed:         p.Confirmed,
		ConfirmedAt:       p.ConfirmedAt,
		Settled:           p.Settled,
		SettledBy:         p.SettledBy,
		SettledAt:         p.SettledAt,
		AppliedAmount:     p.AppliedAmount,
		Reference:         p.Reference,
		Bank:              p.Bank,
		CreatedAt:         p.CreatedAt,
	}
}

// ToPaymentResponses convierte la lista.
func ToPaymentResponses(ps []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(ps))
	for i, p := range ps {
		out[i] = ToPaymentResponse(p)
	}
	return out
}

// PrepaidBalanceResponse saldo prepago de una casa.
type PrepaidBalanceResponse struct {
	HouseID string `json:"house_id"`
	Prepaid int    `json:"prepaid"`
	Used    int    `json:"used"`
	Balance int    `json:"balance"`
}
