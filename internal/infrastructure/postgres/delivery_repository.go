package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL
// (usable con pool o tx). Las entregas son append-only: no hay Update ni Delete.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador de persistencia para entregas. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliveryColumns = `id, house_id, count, date, used_prepaid, notes, created_at`

func collectDeliveries(rows pgx.Rows) ([]*entity.Delivery, error) {
	defer rows.Close()
	var out []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		err := rows.Scan(&d.ID, &d.HouseID, &d.Count, &d.Date, &d.UsedPrepaid, &d.Notes, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Create persiste la entrega.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, house_id, count, date, used_prepaid, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.HouseID, delivery.Count, delivery.Date,
		delivery.UsedPrepaid, delivery.Notes, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// List todas las entregas, más recientes primero.
func (r *DeliveryRepo) List() ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return collectDeliveries(rows)
}

// ListByHouse entregas de una casa, más recientes primero.
func (r *DeliveryRepo) ListByHouse(houseID string) ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE house_id = $1 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, houseID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries by house: %w", err)
	}
	return collectDeliveries(rows)
}

// SumPrepaidUsed total de botellones entregados con crédito prepagado.
func (r *DeliveryRepo) SumPrepaidUsed(houseID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(count), 0)
		FROM deliveries WHERE house_id = $1 AND used_prepaid = true`
	var total int
	if err := r.q.QueryRow(context.Background(), query, houseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum prepaid used: %w", err)
	}
	return total, nil
}
