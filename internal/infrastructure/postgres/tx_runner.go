package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

var _ payments.TxRunner = (*PaymentTxRunner)(nil)
var _ tanks.TxRunner = (*ConsumeTxRunner)(nil)
var _ payments.TxRunner = (*NoPaymentTxRunner)(nil)
var _ tanks.TxRunner = (*NoConsumeTxRunner)(nil)

// PaymentTxRunner ejecuta el lote de aplicación de pagos dentro de una
// transacción PostgreSQL.
type PaymentTxRunner struct {
	pool *pgxpool.Pool
}

// NewPaymentTxRunner construye el runner con el pool.
func NewPaymentTxRunner(pool *pgxpool.Pool) *PaymentTxRunner {
	return &PaymentTxRunner{pool: pool}
}

// Supported indica que hay transacciones reales disponibles.
func (r *PaymentTxRunner) Supported() bool { return true }

// Run inicia una transacción, ejecuta fn con el repo atado a la tx y hace Commit o Rollback.
func (r *PaymentTxRunner) Run(ctx context.Context, fn func(payments repository.PaymentRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPaymentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NoPaymentTxRunner camino sin transacciones (poolers en modo statement,
// DB_DISABLE_TX=true): ejecuta fn sobre repos del pool. El motor de aplicación
// es seguro también así porque cada paso es un update atómico con guarda.
type NoPaymentTxRunner struct {
	pool *pgxpool.Pool
}

// NewNoPaymentTxRunner construye el runner sin transacciones.
func NewNoPaymentTxRunner(pool *pgxpool.Pool) *NoPaymentTxRunner {
	return &NoPaymentTxRunner{pool: pool}
}

// Supported indica que no hay transacciones disponibles.
func (r *NoPaymentTxRunner) Supported() bool { return false }

// Run ejecuta fn directamente contra el pool.
func (r *NoPaymentTxRunner) Run(_ context.Context, fn func(payments repository.PaymentRepository) error) error {
	return fn(NewPaymentRepository(r.pool))
}

// ConsumeTxRunner ejecuta el consumo FIFO de tanques dentro de una transacción
// PostgreSQL.
type ConsumeTxRunner struct {
	pool *pgxpool.Pool
}

// NewConsumeTxRunner construye el runner con el pool.
func NewConsumeTxRunner(pool *pgxpool.Pool) *ConsumeTxRunner {
	return &ConsumeTxRunner{pool: pool}
}

// Supported indica que hay transacciones reales disponibles.
func (r *ConsumeTxRunner) Supported() bool { return true }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *ConsumeTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.InventoryMovementRepository,
	payments repository.PaymentRepository,
	deliveries repository.DeliveryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewProductRepository(tx),
		NewInventoryMovementRepository(tx),
		NewPaymentRepository(tx),
		NewDeliveryRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NoConsumeTxRunner camino sin transacciones para el consumo FIFO.
type NoConsumeTxRunner struct {
	pool *pgxpool.Pool
}

// NewNoConsumeTxRunner construye el runner sin transacciones.
func NewNoConsumeTxRunner(pool *pgxpool.Pool) *NoConsumeTxRunner {
	return &NoConsumeTxRunner{pool: pool}
}

// Supported indica que no hay transacciones disponibles.
func (r *NoConsumeTxRunner) Supported() bool { return false }

// Run ejecuta fn directamente contra el pool.
func (r *NoConsumeTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.InventoryMovementRepository,
	payments repository.PaymentRepository,
	deliveries repository.DeliveryRepository,
) error) error {
	return fn(
		NewProductRepository(r.pool),
		NewInventoryMovementRepository(r.pool),
		NewPaymentRepository(r.pool),
		NewDeliveryRepository(r.pool),
	)
}
