package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del puerto PaymentRepository sobre PostgreSQL
// (usable con pool o tx).
//
// Las operaciones condicionales son un solo UPDATE con las guardas en el
// WHERE: RowsAffected() == 1 significa que esta operación ganó la carrera.
// Nunca se hace read-modify-write de amount ni de applied_amount.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de persistencia para pagos. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, house_id, amount, date, description, prepaid_botellones,
	confirmed, confirmed_at, confirmed_by, settled, settled_by, settled_at,
	applied_amount, applied_keys, idempotency_key, reference, bank, identification, phone,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.HouseID, &p.Amount, &p.Date, &p.Description, &p.PrepaidBotellones,
		&p.Confirmed, &p.ConfirmedAt, &p.ConfirmedBy, &p.Settled, &p.SettledBy, &p.SettledAt,
		&p.AppliedAmount, &p.AppliedKeys, &p.IdempotencyKey, &p.Reference, &p.Bank,
		&p.Identification, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return &p, nil
}

func collectPayments(rows pgx.Rows) ([]*entity.Payment, error) {
	defer rows.Close()
	var out []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.q.QueryRow(context.Background(), query, id))
}

// ListWithAmount pagos con saldo positivo, más recientes primero.
func (r *PaymentRepo) ListWithAmount() ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE amount > 0 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return collectPayments(rows)
}

// ListByHouse todos los pagos de una casa, más recientes primero.
func (r *PaymentRepo) ListByHouse(houseID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE house_id = $1 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, houseID)
	if err != nil {
		return nil, fmt.Errorf("list payments by house: %w", err)
	}
	return collectPayments(rows)
}

// ListPendingByHouse deudas pendientes en orden cronológico: el orden del
// barrido applyToOldest. Las compras de prepago no son deudas aplicables.
func (r *PaymentRepo) ListPendingByHouse(houseID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE house_id = $1 AND confirmed = false AND settled = false AND prepaid_botellones = 0
		ORDER BY date ASC`
	rows, err := r.q.Query(context.Background(), query, houseID)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return collectPayments(rows)
}

// UpsertByIdempotencyKey inserta el borrador solo si la clave no existe;
// en carrera o reenvío devuelve el documento previo sin tocarlo.
// Depende del índice único parcial sobre idempotency_key.
func (r *PaymentRepo) UpsertByIdempotencyKey(key string, draft *entity.Payment) (*entity.Payment, error) {
	ctx := context.Background()
	insert := `
		INSERT INTO payments (id, house_id, amount, date, description, prepaid_botellones,
			confirmed, confirmed_at, confirmed_by, settled, settled_by, settled_at,
			applied_amount, applied_keys, idempotency_key, reference, bank, identification, phone,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (idempotency_key) WHERE idempotency_key <> '' DO NOTHING`
	_, err := r.q.Exec(ctx, insert,
		draft.ID, draft.HouseID, draft.Amount, draft.Date, draft.Description, draft.PrepaidBotellones,
		draft.Confirmed, draft.ConfirmedAt, draft.ConfirmedBy, draft.Settled, draft.SettledBy, draft.SettledAt,
		draft.AppliedAmount, draft.AppliedKeys, key, draft.Reference, draft.Bank, draft.Identification, draft.Phone,
		draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert payment: %w", err)
	}
	// Releer siempre: puede ser el recién insertado o el que ganó la carrera.
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE idempotency_key = $1 AND house_id = $2`
	return scanPayment(r.q.QueryRow(ctx, query, key, draft.HouseID))
}

// ReserveApplication agrega la clave de lote solo si no está presente.
func (r *PaymentRepo) ReserveApplication(paymentID, applyKey string) (bool, error) {
	query := `
		UPDATE payments
		SET applied_keys = array_append(applied_keys, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(applied_keys))`
	cmd, err := r.q.Exec(context.Background(), query, paymentID, applyKey)
	if err != nil {
		return false, fmt.Errorf("reserve application: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Settle liquida por completo un destino pendiente.
func (r *PaymentRepo) Settle(targetID, sourceID string, at time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET settled = true, amount = 0, settled_by = $2, settled_at = $3, updated_at = now()
		WHERE id = $1 AND confirmed = false AND settled = false`
	cmd, err := r.q.Exec(context.Background(), query, targetID, sourceID, at)
	if err != nil {
		return false, fmt.Errorf("settle payment: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// DecrementAmount reduce el saldo de un destino pendiente si alcanza.
func (r *PaymentRepo) DecrementAmount(targetID string, amount decimal.Decimal) (bool, error) {
	query := `
		UPDATE payments
		SET amount = amount - $2, updated_at = now()
		WHERE id = $1 AND confirmed = false AND settled = false AND amount >= $2`
	cmd, err := r.q.Exec(context.Background(), query, targetID, amount)
	if err != nil {
		return false, fmt.Errorf("decrement payment amount: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// SettleZeroed liquida los pagos del conjunto que quedaron en cero.
func (r *PaymentRepo) SettleZeroed(targetIDs []string, sourceID string, at time.Time) error {
	if len(targetIDs) == 0 {
		return nil
	}
	query := `
		UPDATE payments
		SET settled = true, settled_by = $2, settled_at = $3, updated_at = now()
		WHERE id = ANY($1) AND settled = false AND amount <= 0`
	if _, err := r.q.Exec(context.Background(), query, targetIDs, sourceID, at); err != nil {
		return fmt.Errorf("settle zeroed payments: %w", err)
	}
	return nil
}

// SettleZeroedByHouse barrido defensivo sobre toda la casa, excluyendo al fuente.
func (r *PaymentRepo) SettleZeroedByHouse(houseID, excludeID, sourceID string, at time.Time) error {
	query := `
		UPDATE payments
		SET settled = true, settled_by = $3, settled_at = $4, updated_at = now()
		WHERE house_id = $1 AND id <> $2 AND settled = false AND amount <= 0`
	if _, err := r.q.Exec(context.Background(), query, houseID, excludeID, sourceID, at); err != nil {
		return fmt.Errorf("settle zeroed by house: %w", err)
	}
	return nil
}

// IncrementApplied acumula el monto aplicado (nunca sobrescribe).
func (r *PaymentRepo) IncrementApplied(paymentID string, amount decimal.Decimal) error {
	query := `
		UPDATE payments
		SET applied_amount = applied_amount + $2, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, paymentID, amount)
	if err != nil {
		return fmt.Errorf("increment applied amount: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Confirm persiste la confirmación con los datos bancarios.
func (r *PaymentRepo) Confirm(p *entity.Payment) error {
	query := `
		UPDATE payments
		SET confirmed = true, confirmed_at = $2, confirmed_by = $3,
			reference = $4, bank = $5, identification = $6, phone = $7, updated_at = now()
		WHERE id = $1 AND confirmed = false`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.ConfirmedAt, p.ConfirmedBy, p.Reference, p.Bank, p.Identification, p.Phone,
	)
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyConfirmed
	}
	return nil
}

// SumConfirmedPrepaid suma el crédito prepago otorgado por pagos confirmados.
func (r *PaymentRepo) SumConfirmedPrepaid(houseID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(prepaid_botellones), 0)
		FROM payments WHERE house_id = $1 AND confirmed = true`
	var total int
	if err := r.q.QueryRow(context.Background(), query, houseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum confirmed prepaid: %w", err)
	}
	return total, nil
}
