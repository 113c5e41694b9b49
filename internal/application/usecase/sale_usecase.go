package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// SaleUseCase ventas directas de inventario (botellones vacíos, limpieza).
type SaleUseCase struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(sales repository.SaleRepository, products repository.ProductRepository, movements repository.InventoryMovementRepository) *SaleUseCase {
	return &SaleUseCase{sales: sales, products: products, movements: movements}
}

// CreateSaleInput venta nueva.
type CreateSaleInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Notes     string
	UserID    string
}

// Create registra la venta descontando stock con la guarda atómica y emitiendo
// el movimiento de salida. Stock insuficiente rechaza sin tocar nada.
func (uc *SaleUseCase) Create(_ context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.IsTank() {
		// Los tanques se consumen por llenados, no por ventas directas.
		return nil, domain.ErrInvalidInput
	}

	ok, err := uc.products.AdjustQuantity(product.ID, in.Quantity.Neg())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientStock
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Quantity:  in.Quantity,
		Amount:    product.Price.Mul(in.Quantity),
		Notes:     in.Notes,
		UserID:    in.UserID,
		CreatedAt: now,
	}
	if err := uc.sales.Create(sale); err != nil {
		return nil, err
	}

	mv := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.MovementTypeOut,
		Quantity:  in.Quantity,
		Notes:     fmt.Sprintf("Venta: %s", product.Name),
		UserID:    in.UserID,
		CreatedAt: now,
	}
	if err := uc.movements.Create(mv); err != nil {
		return nil, err
	}
	return sale, nil
}

// List todas las ventas.
func (uc *SaleUseCase) List(_ context.Context) ([]*entity.Sale, error) {
	return uc.sales.List()
}
