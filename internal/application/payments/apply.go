package payments

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// ApplyPaymentUseCase distribuye el saldo de un pago confirmado contra deudas
// pendientes de la misma casa.
//
// Cada lote de aplicación (conjunto explícito de destinos, o el barrido
// applyToOldest) se reserva primero en applied_keys del pago fuente; una
// reserva perdida significa que otra solicitud idéntica ya corrió y esta
// retorna sin tocar nada. La reserva ocurre FUERA de la transacción: un lote
// reservado jamás se re-ejecuta, aunque el proceso muera a mitad de camino.
type ApplyPaymentUseCase struct {
	payments repository.PaymentRepository
	tx       TxRunner
	log      *logger.Logger
}

// NewApplyPaymentUseCase construye el caso de uso.
func NewApplyPaymentUseCase(payments repository.PaymentRepository, tx TxRunner, log *logger.Logger) *ApplyPaymentUseCase {
	return &ApplyPaymentUseCase{payments: payments, tx: tx, log: log}
}

// Apply aplica el saldo disponible del pago fuente.
//
// Con destinos explícitos aplica solo a esos; con applyToOldest recorre las
// deudas pendientes de la casa de la más antigua a la más nueva. Devuelve el
// pago fuente recargado tras la operación.
func (uc *ApplyPaymentUseCase) Apply(ctx context.Context, paymentID string, targets []idempotency.Target, applyToOldest bool) (*entity.Payment, error) {
	source, err := uc.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if !source.Confirmed {
		return nil, domain.ErrNotConfirmed
	}

	if len(targets) > 0 {
		if err := uc.applyToTargets(ctx, source, targets); err != nil {
			return nil, err
		}
		// Recarga: applyToOldest parte del saldo que quedó tras los destinos.
		if source, err = uc.payments.GetByID(paymentID); err != nil {
			return nil, err
		}
	}

	if applyToOldest {
		if err := uc.applyOldest(ctx, source); err != nil {
			return nil, err
		}
	}

	return uc.payments.GetByID(paymentID)
}

// available saldo aún no aplicado del pago fuente, nunca negativo.
func available(p *entity.Payment) decimal.Decimal {
	avail := p.Amount.Sub(p.AppliedAmount)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

func (uc *ApplyPaymentUseCase) applyToTargets(ctx context.Context, source *entity.Payment, targets []idempotency.Target) error {
	applyKey := idempotency.ApplyKey(targets)
	won, err := uc.payments.ReserveApplication(source.ID, applyKey)
	if err != nil {
		return err
	}
	if !won {
		uc.log.Info().Str("payment_id", source.ID).Msg("lote de aplicación ya reservado, omitiendo")
		return nil
	}

	return uc.tx.Run(ctx, func(payments repository.PaymentRepository) error {
		// Lectura fresca dentro de la transacción.
		src, err := payments.GetByID(source.ID)
		if err != nil {
			return err
		}
		remaining := available(src)

		applied := decimal.Zero
		settledIDs := make([]string, 0, len(targets))
		now := time.Now()

		for _, t := range targets {
			if !remaining.IsPositive() {
				break
			}
			used, targetID, err := uc.applyToTarget(payments, src, t, remaining, now)
			if err != nil {
				return err
			}
			if used.IsPositive() {
				remaining = remaining.Sub(used)
				applied = applied.Add(used)
			}
			if targetID != "" {
				settledIDs = append(settledIDs, targetID)
			}
		}

		if len(settledIDs) > 0 {
			if err := payments.SettleZeroed(settledIDs, src.ID, now); err != nil {
				return err
			}
		}
		if applied.IsPositive() {
			if err := payments.IncrementApplied(src.ID, applied); err != nil {
				return err
			}
		}
		// Barrido defensivo: cualquier pago de la casa que quedó en cero.
		return payments.SettleZeroedByHouse(src.HouseID, src.ID, src.ID, now)
	})
}

// applyToTarget intenta absorber la deuda de un destino. Devuelve el monto
// realmente absorbido y el id del destino cuando participó en el lote (para el
// barrido de liquidación posterior); las carreras perdidas devuelven cero.
func (uc *ApplyPaymentUseCase) applyToTarget(payments repository.PaymentRepository, source *entity.Payment, t idempotency.Target, remaining decimal.Decimal, now time.Time) (decimal.Decimal, string, error) {
	target, err := payments.GetByID(t.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return decimal.Zero, "", nil
		}
		return decimal.Zero, "", err
	}
	// Lectura fresca: el destino pudo cambiar entre la solicitud y este punto.
	if target.HouseID != source.HouseID || target.Confirmed || target.Settled {
		return decimal.Zero, "", nil
	}

	toApply := remaining
	if toApply.GreaterThan(target.Amount) {
		toApply = target.Amount
	}
	if t.Amount != nil && toApply.GreaterThan(*t.Amount) {
		toApply = *t.Amount
	}
	if !toApply.IsPositive() {
		return decimal.Zero, "", nil
	}

	if toApply.Equal(target.Amount) {
		won, err := payments.Settle(target.ID, source.ID, now)
		if err != nil {
			return decimal.Zero, "", err
		}
		if !won {
			return decimal.Zero, "", nil
		}
		return toApply, target.ID, nil
	}

	won, err := payments.DecrementAmount(target.ID, toApply)
	if err != nil {
		return decimal.Zero, "", err
	}
	if !won {
		return decimal.Zero, "", nil
	}
	return toApply, target.ID, nil
}

func (uc *ApplyPaymentUseCase) applyOldest(ctx context.Context, source *entity.Payment) error {
	remaining := available(source)
	if !remaining.IsPositive() {
		return nil
	}

	applyKey := idempotency.ApplyToOldestKey(source.ID)
	won, err := uc.payments.ReserveApplication(source.ID, applyKey)
	if err != nil {
		return err
	}
	if !won {
		uc.log.Info().Str("payment_id", source.ID).Msg("barrido applyToOldest ya reservado, omitiendo")
		return nil
	}

	return uc.tx.Run(ctx, func(payments repository.PaymentRepository) error {
		src, err := payments.GetByID(source.ID)
		if err != nil {
			return err
		}
		remaining := available(src)
		if !remaining.IsPositive() {
			return nil
		}

		pendings, err := payments.ListPendingByHouse(src.HouseID)
		if err != nil {
			return err
		}

		applied := decimal.Zero
		settledIDs := make([]string, 0, len(pendings))
		now := time.Now()

		for _, pend := range pendings {
			if !remaining.IsPositive() {
				break
			}
			if pend.ID == src.ID {
				continue
			}
			t := idempotency.Target{ID: pend.ID}
			used, targetID, err := uc.applyToTarget(payments, src, t, remaining, now)
			if err != nil {
				return err
			}
			if used.IsPositive() {
				remaining = remaining.Sub(used)
				applied = applied.Add(used)
			}
			if targetID != "" {
				settledIDs = append(settledIDs, targetID)
			}
		}

		if len(settledIDs) > 0 {
			if err := payments.SettleZeroed(settledIDs, src.ID, now); err != nil {
				return err
			}
		}
		if applied.IsPositive() {
			if err := payments.IncrementApplied(src.ID, applied); err != nil {
				return err
			}
		}
		return payments.SettleZeroedByHouse(src.HouseID, src.ID, src.ID, now)
	})
}
