package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// CreatePaymentUseCase resuelve-o-crea pagos a través del guard de idempotencia.
//
// Dos solicitudes lógicamente idénticas (mismos casa, monto, descripción,
// prepago y destinos) producen exactamente un documento persistido; todas las
// llamadas devuelven la identidad de ese mismo documento. Una clave explícita
// del cliente tiene prioridad sobre la huella derivada, y si el cuerpo difiere
// de una solicitud previa con la misma clave, se devuelve el documento previo
// tal cual (la clave representa "esta operación lógica exacta", no "sobrescribir").
type CreatePaymentUseCase struct {
	payments repository.PaymentRepository
}

// NewCreatePaymentUseCase construye el caso de uso.
func NewCreatePaymentUseCase(payments repository.PaymentRepository) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{payments: payments}
}

// CreateInput entrada para resolver-o-crear un pago.
type CreateInput struct {
	HouseID           string
	Amount            decimal.Decimal
	Description       string
	PrepaidBotellones int
	Confirmed         bool
	IdempotencyKey    string               // clave explícita del cliente (opcional)
	Targets           []idempotency.Target // solo participa en la huella derivada
}

// Create resuelve o crea el pago de forma idempotente.
func (uc *CreatePaymentUseCase) Create(_ context.Context, in CreateInput) (*entity.Payment, error) {
	if in.HouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.PrepaidBotellones < 0 {
		return nil, domain.ErrInvalidInput
	}

	key := in.IdempotencyKey
	if key == "" {
		key = idempotency.PaymentKey(in.HouseID, in.Amount, in.Description, in.PrepaidBotellones, in.Targets)
	}

	now := time.Now()
	draft := &entity.Payment{
		ID:                uuid.New().String(),
		HouseID:           in.HouseID,
		Amount:            in.Amount,
		Date:              now,
		Description:       in.Description,
		PrepaidBotellones: in.PrepaidBotellones,
		Confirmed:         in.Confirmed,
		AppliedAmount:     decimal.Zero,
		IdempotencyKey:    key,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return uc.payments.UpsertByIdempotencyKey(key, draft)
}
