// Package deliveries orquesta el registro de entregas: una entrega es un
// consumo FIFO de tanques con su registro append-only asociado.
package deliveries

import (
	"context"
	"time"

	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// UseCase registro y consulta de entregas.
type UseCase struct {
	consume    *tanks.ConsumeUseCase
	deliveries repository.DeliveryRepository
	houses     repository.HouseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(consume *tanks.ConsumeUseCase, deliveries repository.DeliveryRepository, houses repository.HouseRepository) *UseCase {
	return &UseCase{consume: consume, deliveries: deliveries, houses: houses}
}

// RegisterInput datos de una entrega nueva.
type RegisterInput struct {
	HouseID     string
	Count       int
	Date        time.Time
	UsedPrepaid bool
	Notes       string
	UserID      string
}

// Register registra la entrega drenando los tanques y creando la deuda
// (o descontando prepago) en la misma operación.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*tanks.ConsumeResult, error) {
	if in.Count <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.houses.GetByID(in.HouseID); err != nil {
		return nil, err
	}
	return uc.consume.Consume(ctx, tanks.ConsumeInput{
		HouseID:        in.HouseID,
		Botellones:     in.Count,
		UsedPrepaid:    in.UsedPrepaid,
		Notes:          in.Notes,
		UserID:         in.UserID,
		CreateDelivery: true,
		Date:           in.Date,
	})
}

// List todas las entregas.
func (uc *UseCase) List(_ context.Context) ([]*entity.Delivery, error) {
	return uc.deliveries.List()
}

// ListByHouse entregas de una casa.
func (uc *UseCase) ListByHouse(_ context.Context, houseID string) ([]*entity.Delivery, error) {
	return uc.deliveries.ListByHouse(houseID)
}
