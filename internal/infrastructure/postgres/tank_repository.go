package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

var _ repository.TankRepository = (*TankRepo)(nil)

// TankRepo implementación del puerto TankRepository sobre PostgreSQL (usable con pool o tx).
type TankRepo struct {
	q Querier
}

// NewTankRepository construye el adaptador de persistencia para tanques. Pasar pool o tx (Querier).
func NewTankRepository(q Querier) *TankRepo {
	return &TankRepo{q: q}
}

const tankColumns = `t.id, t.product_id, t.liters_per_bottle, t.price_per_fill, t.active, t.deleted, t.created_at, t.updated_at`

// Create persiste un tanque nuevo.
func (r *TankRepo) Create(tank *entity.Tank) error {
	query := `
		INSERT INTO tanks (id, product_id, liters_per_bottle, price_per_fill, active, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tank.ID, tank.ProductID, tank.LitersPerBottle, tank.PricePerFill, tank.Active,
		tank.CreatedAt, tank.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tank: %w", err)
	}
	return nil
}

// GetByID obtiene un tanque por ID (los eliminados no se devuelven).
func (r *TankRepo) GetByID(id string) (*entity.Tank, error) {
	query := `SELECT ` + tankColumns + ` FROM tanks t WHERE t.id = $1 AND t.deleted = false`
	var t entity.Tank
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProductID, &t.LitersPerBottle, &t.PricePerFill,
		&t.Active, &t.Deleted, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tank: %w", err)
	}
	return &t, nil
}

// Update actualiza los parámetros operativos del tanque.
func (r *TankRepo) Update(tank *entity.Tank) error {
	query := `
		UPDATE tanks
		SET liters_per_bottle = $2, price_per_fill = $3, active = $4, updated_at = $5
		WHERE id = $1 AND deleted = false`
	cmd, err := r.q.Exec(context.Background(), query,
		tank.ID, tank.LitersPerBottle, tank.PricePerFill, tank.Active, tank.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tank: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TankRepo) listWithProduct(where string) ([]*entity.TankWithProduct, error) {
	query := `
		SELECT ` + tankColumns + `, ` + productColumns + `
		FROM tanks t
		JOIN products p ON p.id = t.product_id
		WHERE ` + where + `
		ORDER BY t.created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}
	defer rows.Close()
	var out []*entity.TankWithProduct
	for rows.Next() {
		var tw entity.TankWithProduct
		err := rows.Scan(
			&tw.Tank.ID, &tw.Tank.ProductID, &tw.Tank.LitersPerBottle, &tw.Tank.PricePerFill,
			&tw.Tank.Active, &tw.Tank.Deleted, &tw.Tank.CreatedAt, &tw.Tank.UpdatedAt,
			&tw.Product.ID, &tw.Product.Name, &tw.Product.Type, &tw.Product.Category,
			&tw.Product.Unit, &tw.Product.Quantity, &tw.Product.Price, &tw.Product.Capacity,
			&tw.Product.MinStock, &tw.Product.CreatedAt, &tw.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tank with product: %w", err)
		}
		out = append(out, &tw)
	}
	return out, rows.Err()
}

// ListActiveFIFO cola FIFO de consumo: activos, no eliminados, el más antiguo primero.
func (r *TankRepo) ListActiveFIFO() ([]*entity.TankWithProduct, error) {
	return r.listWithProduct(`t.active = true AND t.deleted = false`)
}

// ListNotDeleted todos los tanques no eliminados (resumen).
func (r *TankRepo) ListNotDeleted() ([]*entity.TankWithProduct, error) {
	return r.listWithProduct(`t.deleted = false`)
}

// Deactivate saca el tanque de la cola FIFO.
func (r *TankRepo) Deactivate(id string) error {
	query := `UPDATE tanks SET active = false, updated_at = now() WHERE id = $1 AND deleted = false`
	cmd, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate tank: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted solo si el tanque está inactivo (guarda en el WHERE).
func (r *TankRepo) SoftDelete(id string) (bool, error) {
	query := `
		UPDATE tanks SET deleted = true, updated_at = now()
		WHERE id = $1 AND deleted = false AND active = false`
	cmd, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return false, fmt.Errorf("soft delete tank: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
