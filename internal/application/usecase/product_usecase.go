package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// ProductUseCase inventario general: productos, ajustes y movimientos.
type ProductUseCase struct {
	products  repository.ProductRepository
	tanks     repository.TankRepository
	movements repository.InventoryMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, tanks repository.TankRepository, movements repository.InventoryMovementRepository) *ProductUseCase {
	return &ProductUseCase{products: products, tanks: tanks, movements: movements}
}

// CreateProductInput alta de producto.
type CreateProductInput struct {
	Name     string
	Type     string
	Category string
	Unit     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Capacity decimal.Decimal
	MinStock decimal.Decimal
	UserID   string
}

// Create registra un producto. La categoría se normaliza a las permitidas;
// la categoría tanque exige capacidad y crea su tanque operativo asociado.
func (uc *ProductUseCase) Create(_ context.Context, in CreateProductInput) (*entity.Product, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.IsNegative() || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	category := entity.NormalizeCategory(in.Category)
	unit := in.Unit
	if unit == "" {
		unit = entity.UnitPiece
	}
	if category == entity.CategoryTank {
		unit = entity.UnitLiter
		if !in.Capacity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		if in.Quantity.GreaterThan(in.Capacity) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Category:  category,
		Unit:      unit,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Capacity:  in.Capacity,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}

	if category == entity.CategoryTank {
		tank := &entity.Tank{
			ID:              uuid.New().String(),
			ProductID:       p.ID,
			LitersPerBottle: entity.DefaultLitersPerBottle,
			PricePerFill:    in.Price,
			Active:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.tanks.Create(tank); err != nil {
			return nil, err
		}
	}

	if in.Quantity.IsPositive() {
		mv := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  in.Quantity,
			Notes:     "Creación inicial",
			UserID:    in.UserID,
			CreatedAt: now,
		}
		if err := uc.movements.Create(mv); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// GetByID devuelve un producto.
func (uc *ProductUseCase) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return uc.products.GetByID(id)
}

// List todos los productos.
func (uc *ProductUseCase) List(_ context.Context) ([]*entity.Product, error) {
	return uc.products.List()
}

// UpdateProductInput edición de producto (nil = sin cambio).
type UpdateProductInput struct {
	Name     *string
	Type     *string
	Price    *decimal.Decimal
	MinStock *decimal.Decimal
}

// Update edita los datos descriptivos del producto. El stock solo cambia por
// ajustes y ventas, nunca por edición directa.
func (uc *ProductUseCase) Update(_ context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = *in.Name
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	p.UpdatedAt = time.Now()
	if err := uc.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete elimina un producto del inventario.
func (uc *ProductUseCase) Delete(_ context.Context, id string) error {
	if _, err := uc.products.GetByID(id); err != nil {
		return err
	}
	return uc.products.Delete(id)
}

// Adjust aplica un ajuste manual de stock (positivo o negativo) con su
// movimiento de auditoría. El decremento usa la guarda atómica: nunca deja
// stock negativo aunque haya ajustes concurrentes.
func (uc *ProductUseCase) Adjust(_ context.Context, productID string, delta decimal.Decimal, notes, userID string) (*entity.Product, error) {
	if delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	ok, err := uc.products.AdjustQuantity(productID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientStock
	}

	mvType := entity.MovementTypeIn
	qty := delta
	if delta.IsNegative() {
		mvType = entity.MovementTypeOut
		qty = delta.Neg()
	}
	if notes == "" {
		notes = "Ajuste manual"
	}
	mv := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      mvType,
		Quantity:  qty,
		Notes:     notes,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := uc.movements.Create(mv); err != nil {
		return nil, err
	}
	return uc.products.GetByID(productID)
}

// Movements historial de movimientos, paginado.
func (uc *ProductUseCase) Movements(_ context.Context, limit, offset int) ([]*entity.InventoryMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movements.List(limit, offset)
}

// MovementsByProduct historial de un producto.
func (uc *ProductUseCase) MovementsByProduct(_ context.Context, productID string) ([]*entity.InventoryMovement, error) {
	if _, err := uc.products.GetByID(productID); err != nil {
		return nil, err
	}
	return uc.movements.ListByProduct(productID)
}
