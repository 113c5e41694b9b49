package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
//
// Las operaciones condicionales (Settle, DecrementAmount, ReserveApplication)
// son updates atómicos de un solo documento con guardas en el filtro: devuelven
// false cuando otra operación concurrente ganó la carrera y la guarda ya no se
// cumple. El motor de aplicación de pagos depende de esa señal para no duplicar
// liquidaciones.
type PaymentRepository interface {
	GetByID(id string) (*entity.Payment, error)

	// ListWithAmount pagos con saldo > 0, más recientes primero (vista general).
	ListWithAmount() ([]*entity.Payment, error)
	// ListByHouse todos los pagos de una casa, más recientes primero.
	ListByHouse(houseID string) ([]*entity.Payment, error)
	// ListPendingByHouse deudas pendientes de la casa (sin confirmar, sin liquidar,
	// sin prepago) ordenadas por fecha ascendente: el orden del barrido applyToOldest.
	ListPendingByHouse(houseID string) ([]*entity.Payment, error)

	// UpsertByIdempotencyKey inserta el borrador solo si no existe ya un pago con
	// esa clave para la casa; si existe (o una carrera lo creó primero) devuelve
	// el documento previo tal cual, sin sobrescribir.
	UpsertByIdempotencyKey(key string, draft *entity.Payment) (*entity.Payment, error)

	// ReserveApplication agrega applyKey a applied_keys solo si aún no está
	// presente. false = otra solicitud concurrente ya reservó este mismo lote.
	ReserveApplication(paymentID, applyKey string) (bool, error)

	// Settle liquida por completo un destino: settled=true, amount=0, settledBy.
	// Guardas: confirmed=false AND settled=false. false = carrera perdida.
	Settle(targetID, sourceID string, at time.Time) (bool, error)

	// DecrementAmount reduce el saldo de un destino pendiente.
	// Guardas: confirmed=false AND settled=false AND amount >= monto.
	DecrementAmount(targetID string, amount decimal.Decimal) (bool, error)

	// SettleZeroed marca como liquidados los pagos del conjunto con amount <= 0
	// aún no liquidados (limpieza idempotente tras el bucle de aplicación).
	SettleZeroed(targetIDs []string, sourceID string, at time.Time) error

	// SettleZeroedByHouse barrido defensivo: liquida cualquier pago de la casa con
	// amount <= 0 sin liquidar, excluyendo al pago fuente.
	SettleZeroedByHouse(houseID, excludeID, sourceID string, at time.Time) error

	// IncrementApplied acumula (nunca sobrescribe) el monto aplicado del pago fuente.
	IncrementApplied(paymentID string, amount decimal.Decimal) error

	// Confirm marca el pago como confirmado con sus datos bancarios.
	Confirm(p *entity.Payment) error

	// SumConfirmedPrepaid suma prepaidBotellones de los pagos CONFIRMADOS de la casa.
	SumConfirmedPrepaid(houseID string) (int, error)
}
