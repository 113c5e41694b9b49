package tanks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// ManageUseCase administración de tanques: alta, recarga, activación y resumen.
type ManageUseCase struct {
	tanks     repository.TankRepository
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
}

// NewManageUseCase construye el caso de uso.
func NewManageUseCase(tanks repository.TankRepository, products repository.ProductRepository, movements repository.InventoryMovementRepository) *ManageUseCase {
	return &ManageUseCase{tanks: tanks, products: products, movements: movements}
}

// CreateTankInput alta de un tanque con su producto volumétrico.
type CreateTankInput struct {
	Name            string
	Capacity        decimal.Decimal // litros
	InitialLiters   decimal.Decimal
	LitersPerBottle decimal.Decimal
	PricePerFill    decimal.Decimal
	Active          bool
	UserID          string
}

// CreateTank crea el producto (categoría tanque, unidad litro) y su tanque.
func (uc *ManageUseCase) CreateTank(_ context.Context, in CreateTankInput) (*entity.TankWithProduct, error) {
	if in.Name == "" || !in.Capacity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialLiters.IsNegative() || in.InitialLiters.GreaterThan(in.Capacity) {
		return nil, domain.ErrInvalidInput
	}

	lpb := in.LitersPerBottle
	if !lpb.IsPositive() {
		lpb = entity.DefaultLitersPerBottle
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      "tanque",
		Category:  entity.CategoryTank,
		Unit:      entity.UnitLiter,
		Quantity:  in.InitialLiters,
		Price:     in.PricePerFill,
		Capacity:  in.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}

	tank := &entity.Tank{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		LitersPerBottle: lpb,
		PricePerFill:    in.PricePerFill,
		Active:          in.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.tanks.Create(tank); err != nil {
		return nil, err
	}

	if in.InitialLiters.IsPositive() {
		mv := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  in.InitialLiters,
			Notes:     "Creación inicial",
			UserID:    in.UserID,
			CreatedAt: now,
		}
		if err := uc.movements.Create(mv); err != nil {
			return nil, err
		}
	}
	return &entity.TankWithProduct{Tank: *tank, Product: *product}, nil
}

// UpdateTankInput campos operativos editables.
type UpdateTankInput struct {
	LitersPerBottle *decimal.Decimal
	PricePerFill    *decimal.Decimal
	Active          *bool
}

// UpdateTank actualiza los parámetros operativos del tanque.
func (uc *ManageUseCase) UpdateTank(_ context.Context, id string, in UpdateTankInput) (*entity.Tank, error) {
	tank, err := uc.tanks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.LitersPerBottle != nil {
		if !in.LitersPerBottle.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		tank.LitersPerBottle = *in.LitersPerBottle
	}
	if in.PricePerFill != nil {
		if in.PricePerFill.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		tank.PricePerFill = *in.PricePerFill
	}
	if in.Active != nil {
		tank.Active = *in.Active
	}
	tank.UpdatedAt = time.Now()
	if err := uc.tanks.Update(tank); err != nil {
		return nil, err
	}
	return tank, nil
}

// Recharge agrega litros al tanque sin exceder su capacidad y registra el
// movimiento de entrada. Devuelve los litros realmente agregados.
func (uc *ManageUseCase) Recharge(_ context.Context, tankID string, liters decimal.Decimal, userID string) (decimal.Decimal, *entity.Product, error) {
	if !liters.IsPositive() {
		return decimal.Zero, nil, domain.ErrInvalidInput
	}
	tank, err := uc.tanks.GetByID(tankID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	product, err := uc.products.GetByID(tank.ProductID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	space := product.Capacity.Sub(product.Quantity)
	if !space.IsPositive() {
		return decimal.Zero, nil, domain.ErrConflict
	}
	add := liters
	if add.GreaterThan(space) {
		add = space
	}

	if _, err := uc.products.AdjustQuantity(product.ID, add); err != nil {
		return decimal.Zero, nil, err
	}
	mv := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.MovementTypeIn,
		Quantity:  add,
		Notes:     "Recarga tanque",
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := uc.movements.Create(mv); err != nil {
		return decimal.Zero, nil, err
	}

	fresh, err := uc.products.GetByID(product.ID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return add, fresh, nil
}

// Deactivate saca el tanque de la cola FIFO de consumo.
func (uc *ManageUseCase) Deactivate(_ context.Context, id string) error {
	if _, err := uc.tanks.GetByID(id); err != nil {
		return err
	}
	return uc.tanks.Deactivate(id)
}

// SoftDelete elimina lógicamente un tanque; los tanques activos no se eliminan.
func (uc *ManageUseCase) SoftDelete(_ context.Context, id string) error {
	if _, err := uc.tanks.GetByID(id); err != nil {
		return err
	}
	ok, err := uc.tanks.SoftDelete(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTankActive
	}
	return nil
}

// TankSummary estado de un tanque con su historial de recargas.
type TankSummary struct {
	Tank         entity.Tank
	Product      entity.Product
	LevelPercent int
	Recharges    []*entity.InventoryMovement
}

// Summary estado de todos los tanques no eliminados.
func (uc *ManageUseCase) Summary(_ context.Context) ([]*TankSummary, error) {
	list, err := uc.tanks.ListNotDeleted()
	if err != nil {
		return nil, err
	}
	out := make([]*TankSummary, 0, len(list))
	for _, tw := range list {
		recharges, err := uc.movements.ListInByProduct(tw.Product.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &TankSummary{
			Tank:         tw.Tank,
			Product:      tw.Product,
			LevelPercent: tw.Product.LevelPercent(),
			Recharges:    recharges,
		})
	}
	return out, nil
}
