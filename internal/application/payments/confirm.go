package payments

import (
	"context"
	"time"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// ConfirmPaymentUseCase valida y confirma un pago con sus datos bancarios.
type ConfirmPaymentUseCase struct {
	payments repository.PaymentRepository
}

// NewConfirmPaymentUseCase construye el caso de uso.
func NewConfirmPaymentUseCase(payments repository.PaymentRepository) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{payments: payments}
}

// ConfirmInput datos bancarios de la confirmación, todos obligatorios.
type ConfirmInput struct {
	Reference      string
	Bank           string
	Identification string
	Phone          string
	ConfirmedBy    string
}

// Confirm marca el pago como confirmado. Un pago ya confirmado devuelve
// ErrAlreadyConfirmed; datos bancarios incompletos, ErrIncompleteBankData.
func (uc *ConfirmPaymentUseCase) Confirm(_ context.Context, paymentID string, in ConfirmInput) (*entity.Payment, error) {
	if in.Reference == "" || in.Bank == "" || in.Identification == "" || in.Phone == "" {
		return nil, domain.ErrIncompleteBankData
	}

	p, err := uc.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.Confirmed {
		return nil, domain.ErrAlreadyConfirmed
	}

	now := time.Now()
	p.Confirmed = true
	p.ConfirmedAt = &now
	p.ConfirmedBy = in.ConfirmedBy
	p.Reference = in.Reference
	p.Bank = in.Bank
	p.Identification = in.Identification
	p.Phone = in.Phone

	if err := uc.payments.Confirm(p); err != nil {
		return nil, err
	}
	return p, nil
}
