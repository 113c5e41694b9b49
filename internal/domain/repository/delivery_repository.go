package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery (append-only).
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	List() ([]*entity.Delivery, error)
	ListByHouse(houseID string) ([]*entity.Delivery, error)

	// SumPrepaidUsed total de botellones entregados con crédito prepagado.
	// Se recalcula fresco en cada validación de crédito (sin contador cacheado).
	SumPrepaidUsed(houseID string) (int, error)
}
