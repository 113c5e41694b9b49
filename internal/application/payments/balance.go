package payments

import (
	"context"

	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// PrepaidBalance saldo de botellones prepagados de una casa.
type PrepaidBalance struct {
	Prepaid int // otorgados por pagos confirmados
	Used    int // consumidos en entregas con prepago
	Balance int
}

// BalanceUseCase calcula el saldo prepago de una casa.
//
// El saldo se recalcula siempre desde los registros, nunca se cachea: el
// crédito solo cuenta desde pagos confirmados y el consumo desde entregas
// marcadas usedPrepaid.
type BalanceUseCase struct {
	payments   repository.PaymentRepository
	deliveries repository.DeliveryRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(payments repository.PaymentRepository, deliveries repository.DeliveryRepository) *BalanceUseCase {
	return &BalanceUseCase{payments: payments, deliveries: deliveries}
}

// ByHouse devuelve el saldo prepago actual de la casa.
func (uc *BalanceUseCase) ByHouse(_ context.Context, houseID string) (*PrepaidBalance, error) {
	prepaid, err := uc.payments.SumConfirmedPrepaid(houseID)
	if err != nil {
		return nil, err
	}
	used, err := uc.deliveries.SumPrepaidUsed(houseID)
	if err != nil {
		return nil, err
	}
	return &PrepaidBalance{Prepaid: prepaid, Used: used, Balance: prepaid - used}, nil
}
