package tanks

import (
	"context"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// TxRunner ejecuta el consumo FIFO dentro de una transacción cuando el backend
// lo permite. Con poolers de statements (transacciones deshabilitadas) Run
// ejecuta la función sobre los repositorios del pool directamente: el motor
// está escrito para ser seguro también en ese modo, cada paso usa updates
// atómicos con guarda.
type TxRunner interface {
	Supported() bool
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.InventoryMovementRepository,
		payments repository.PaymentRepository,
		deliveries repository.DeliveryRepository,
	) error) error
}

// LevelNotifier avisa cuando un tanque queda por debajo del umbral de nivel.
// Es best-effort: el consumo nunca falla por un aviso fallido.
type LevelNotifier interface {
	NotifyTankLevel(product *entity.Product) bool
}
