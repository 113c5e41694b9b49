package payments

import (
	"context"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// QueryUseCase lecturas de pagos.
type QueryUseCase struct {
	payments repository.PaymentRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(payments repository.PaymentRepository) *QueryUseCase {
	return &QueryUseCase{payments: payments}
}

// GetByID devuelve un pago por id.
func (uc *QueryUseCase) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	return uc.payments.GetByID(id)
}

// List pagos con saldo pendiente, más recientes primero.
func (uc *QueryUseCase) List(_ context.Context) ([]*entity.Payment, error) {
	return uc.payments.ListWithAmount()
}

// ListByHouse todos los pagos de una casa.
func (uc *QueryUseCase) ListByHouse(_ context.Context, houseID string) ([]*entity.Payment, error) {
	return uc.payments.ListByHouse(houseID)
}

// ListPendingByHouse deudas pendientes de una casa, más antiguas primero.
func (uc *QueryUseCase) ListPendingByHouse(_ context.Context, houseID string) ([]*entity.Payment, error) {
	return uc.payments.ListPendingByHouse(houseID)
}
