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

var _ repository.HouseRepository = (*HouseRepo)(nil)

// HouseRepo implementación del puerto HouseRepository sobre PostgreSQL (usable con pool o tx).
type HouseRepo struct {
	q Querier
}

// NewHouseRepository construye el adaptador de persistencia para casas. Pasar pool o tx (Querier).
func NewHouseRepository(q Querier) *HouseRepo {
	return &HouseRepo{q: q}
}

const houseColumns = `id, code, number, owner_name, phone, email, address, notes, created_at, updated_at`

func scanHouse(row pgx.Row) (*entity.House, error) {
	var h entity.House
	err := row.Scan(
		&h.ID, &h.Code, &h.Number, &h.OwnerName, &h.Phone, &h.Email,
		&h.Address, &h.Notes, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan house: %w", err)
	}
	return &h, nil
}

// Create persiste una casa nueva. El código es único.
func (r *HouseRepo) Create(house *entity.House) error {
	query := `
		INSERT INTO houses (id, code, number, owner_name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		house.ID, house.Code, house.Number, house.OwnerName, house.Phone,
		house.Email, house.Address, house.Notes, house.CreatedAt, house.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert house: %w", err)
	}
	return nil
}

// GetByID obtiene una casa por ID.
func (r *HouseRepo) GetByID(id string) (*entity.House, error) {
	query := `SELECT ` + houseColumns + ` FROM houses WHERE id = $1`
	return scanHouse(r.q.QueryRow(context.Background(), query, id))
}

// List todas las casas ordenadas por código.
func (r *HouseRepo) List() ([]*entity.House, error) {
	query := `SELECT ` + houseColumns + ` FROM houses ORDER BY code ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()
	var out []*entity.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update actualiza los datos de la casa.
func (r *HouseRepo) Update(house *entity.House) error {
	query := `
		UPDATE houses
		SET code = $2, number = $3, owner_name = $4, phone = $5, email = $6, address = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		house.ID, house.Code, house.Number, house.OwnerName, house.Phone,
		house.Email, house.Address, house.Notes, house.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update house: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la casa. Pagos y entregas históricas quedan intactos.
func (r *HouseRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM houses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete house: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
