package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error

	// FirstByCategory primer producto de la categoría dada (ej. precio del botellón).
	FirstByCategory(category string) (*entity.Product, error)

	// AdjustQuantity aplica un delta atómico a la cantidad con guarda
	// quantity + delta >= 0 en el propio UPDATE. false = la guarda no se cumplió
	// (stock insuficiente o carrera perdida); el caller relee y decide.
	// Nunca hacer read-modify-write del stock en memoria.
	AdjustQuantity(productID string, delta decimal.Decimal) (bool, error)
}
