package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// TankRepository define el puerto de persistencia para Tank.
type TankRepository interface {
	Create(tank *entity.Tank) error
	GetByID(id string) (*entity.Tank, error)
	Update(tank *entity.Tank) error

	// ListActiveFIFO tanques activos y no eliminados, con su producto,
	// ordenados por fecha de creación ascendente (la cola FIFO de consumo).
	ListActiveFIFO() ([]*entity.TankWithProduct, error)

	// ListNotDeleted todos los tanques no eliminados con su producto (resumen).
	ListNotDeleted() ([]*entity.TankWithProduct, error)

	// Deactivate saca el tanque de la cola FIFO.
	Deactivate(id string) error

	// SoftDelete marca deleted=true solo si el tanque está inactivo.
	// false = el tanque sigue activo y no puede eliminarse.
	SoftDelete(id string) (bool, error)
}
