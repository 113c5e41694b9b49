package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	List(limit, offset int) ([]*entity.InventoryMovement, error)
	ListByProduct(productID string) ([]*entity.InventoryMovement, error)
	// ListInByProduct movimientos de entrada (recargas) en orden cronológico.
	ListInByProduct(productID string) ([]*entity.InventoryMovement, error)
}
