package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// HouseRepository define el puerto de persistencia para House.
// Delete no arrastra pagos ni entregas históricas (sin borrado en cascada).
type HouseRepository interface {
	Create(house *entity.House) error
	GetByID(id string) (*entity.House, error)
	List() ([]*entity.House, error)
	Update(house *entity.House) error
	Delete(id string) error
}
