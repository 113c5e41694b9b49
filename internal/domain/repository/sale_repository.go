package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas directas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	List() ([]*entity.Sale, error)
}
