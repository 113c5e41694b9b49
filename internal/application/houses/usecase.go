// Package houses administra las casas del reparto y orquesta el flujo
// "pagar desde la casa": crear el pago idempotente y aplicarlo a las deudas.
package houses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// UseCase casos de uso de casas.
type UseCase struct {
	houses     repository.HouseRepository
	paymentsRx repository.PaymentRepository
	deliveries repository.DeliveryRepository
	create     *payments.CreatePaymentUseCase
	apply      *payments.ApplyPaymentUseCase
	balance    *payments.BalanceUseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	houses repository.HouseRepository,
	paymentsRx repository.PaymentRepository,
	deliveries repository.DeliveryRepository,
	create *payments.CreatePaymentUseCase,
	apply *payments.ApplyPaymentUseCase,
	balance *payments.BalanceUseCase,
) *UseCase {
	return &UseCase{
		houses:     houses,
		paymentsRx: paymentsRx,
		deliveries: deliveries,
		create:     create,
		apply:      apply,
		balance:    balance,
	}
}

// CreateInput alta de una casa.
type CreateInput struct {
	Code      string
	Number    string
	OwnerName string
	Phone     string
	Email     string
	Address   string
	Notes     string
}

// Create registra una casa nueva.
func (uc *UseCase) Create(_ context.Context, in CreateInput) (*entity.House, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	h := &entity.House{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Number:    in.Number,
		OwnerName: in.OwnerName,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.houses.Create(h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetByID devuelve una casa.
func (uc *UseCase) GetByID(_ context.Context, id string) (*entity.House, error) {
	return uc.houses.GetByID(id)
}

// List todas las casas.
func (uc *UseCase) List(_ context.Context) ([]*entity.House, error) {
	return uc.houses.List()
}

// Update actualiza los datos de contacto de la casa.
func (uc *UseCase) Update(_ context.Context, id string, in CreateInput) (*entity.House, error) {
	h, err := uc.houses.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Code != "" {
		h.Code = in.Code
	}
	h.Number = in.Number
	h.OwnerName = in.OwnerName
	h.Phone = in.Phone
	h.Email = in.Email
	h.Address = in.Address
	h.Notes = in.Notes
	h.UpdatedAt = time.Now()
	if err := uc.houses.Update(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete elimina la casa. El histórico de pagos y entregas queda intacto.
func (uc *UseCase) Delete(_ context.Context, id string) error {
	if _, err := uc.houses.GetByID(id); err != nil {
		return err
	}
	return uc.houses.Delete(id)
}

// Detail vista completa de la casa: datos, pagos, entregas y saldo prepago.
type Detail struct {
	House      *entity.House
	Payments   []*entity.Payment
	Deliveries []*entity.Delivery
	Balance    *payments.PrepaidBalance
}

// GetDetail arma la vista completa de una casa.
func (uc *UseCase) GetDetail(ctx context.Context, id string) (*Detail, error) {
	h, err := uc.houses.GetByID(id)
	if err != nil {
		return nil, err
	}
	ps, err := uc.paymentsRx.ListByHouse(id)
	if err != nil {
		return nil, err
	}
	ds, err := uc.deliveries.ListByHouse(id)
	if err != nil {
		return nil, err
	}
	bal, err := uc.balance.ByHouse(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{House: h, Payments: ps, Deliveries: ds, Balance: bal}, nil
}

// Debt deuda pendiente de la casa.
type Debt struct {
	Total    decimal.Decimal
	Pendings []*entity.Payment
}

// GetDebt deudas pendientes (más antiguas primero) y su total.
func (uc *UseCase) GetDebt(_ context.Context, id string) (*Debt, error) {
	if _, err := uc.houses.GetByID(id); err != nil {
		return nil, err
	}
	pendings, err := uc.paymentsRx.ListPendingByHouse(id)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range pendings {
		total = total.Add(p.Amount)
	}
	return &Debt{Total: total, Pendings: pendings}, nil
}

// PayInput pago registrado desde la vista de la casa.
type PayInput struct {
	Amount            decimal.Decimal
	Description       string
	PrepaidBotellones int
	IdempotencyKey    string
	Targets           []idempotency.Target
	ApplyToOldest     bool
	ActorRole         string
}

// Pay crea el pago idempotente y, si el actor es admin, lo aplica de
// inmediato a los destinos o a las deudas más antiguas.
//
// Dirigir el pago a destinos concretos es privilegio de admin; un actor sin
// rol admin que envía destinos se rechaza ANTES de crear nada (fail-closed).
func (uc *UseCase) Pay(ctx context.Context, houseID string, in PayInput) (*entity.Payment, error) {
	isAdmin := in.ActorRole == entity.RoleAdmin
	wantsApply := len(in.Targets) > 0 || in.ApplyToOldest
	if wantsApply && !isAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.houses.GetByID(houseID); err != nil {
		return nil, err
	}

	// Un pago registrado por esta vía es dinero real recibido: nace confirmado
	// sin importar el rol del actor. Lo pendiente de confirmar son las deudas
	// que genera el motor de consumo, no los abonos de la casa.
	p, err := uc.create.Create(ctx, payments.CreateInput{
		HouseID:           houseID,
		Amount:            in.Amount,
		Description:       in.Description,
		PrepaidBotellones: in.PrepaidBotellones,
		Confirmed:         true,
		IdempotencyKey:    in.IdempotencyKey,
		Targets:           in.Targets,
	})
	if err != nil {
		return nil, err
	}

	if wantsApply && p.Confirmed {
		return uc.apply.Apply(ctx, p.ID, in.Targets, in.ApplyToOldest)
	}
	return p, nil
}
