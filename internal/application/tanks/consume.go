package tanks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// ConsumeUseCase ejecuta el llenado de botellones drenando los tanques activos
// en orden FIFO (el más antiguo primero).
//
// El flujo completo: validar litros y crédito prepago, drenar tanques con
// decrementos atómicos guardados, emitir un movimiento de salida por tanque,
// registrar la deuda (o descontar prepago), opcionalmente la entrega, y al
// final avisar niveles bajos. La validación de prepago ocurre ANTES de tocar
// stock: un crédito insuficiente jamás deja litros consumidos a medias.
type ConsumeUseCase struct {
	tanks      repository.TankRepository
	payments   repository.PaymentRepository
	deliveries repository.DeliveryRepository
	tx         TxRunner
	notifier   LevelNotifier
	threshold  int // porcentaje de nivel bajo
	log        *logger.Logger
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(
	tanks repository.TankRepository,
	payments repository.PaymentRepository,
	deliveries repository.DeliveryRepository,
	tx TxRunner,
	notifier LevelNotifier,
	threshold int,
	log *logger.Logger,
) *ConsumeUseCase {
	return &ConsumeUseCase{
		tanks:      tanks,
		payments:   payments,
		deliveries: deliveries,
		tx:         tx,
		notifier:   notifier,
		threshold:  threshold,
		log:        log,
	}
}

// ConsumeInput parámetros de un llenado. HouseID es opcional: sin casa el
// llenado es un drenado puro (solo movimientos, sin deuda ni entrega).
type ConsumeInput struct {
	HouseID        string
	Botellones     int
	UsedPrepaid    bool
	Notes          string
	UserID         string
	CreateDelivery bool
	Date           time.Time // fecha de la entrega; cero = ahora
}

// ConsumedTank detalle de lo drenado de un tanque.
type ConsumedTank struct {
	Movement        *entity.InventoryMovement
	ProductID       string
	ProductName     string
	Liters          decimal.Decimal
	LitersPerBottle decimal.Decimal
	PricePerFill    decimal.Decimal
}

// ConsumeResult resultado del llenado.
type ConsumeResult struct {
	TanksUsed  int
	LitersUsed decimal.Decimal
	Movements  []ConsumedTank
	Payment    *entity.Payment // deuda generada, nil si fue con prepago
	Delivery   *entity.Delivery
}

// Consume ejecuta el llenado completo.
func (uc *ConsumeUseCase) Consume(ctx context.Context, in ConsumeInput) (*ConsumeResult, error) {
	if in.Botellones <= 0 {
		return nil, domain.ErrInvalidInput
	}
	// El prepago siempre pertenece a una casa.
	if in.UsedPrepaid && in.HouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	queue, err := uc.tanks.ListActiveFIFO()
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, domain.ErrNoTanks
	}

	// El factor de conversión se toma del primer tanque de la cola; el precio
	// de la deuda se calcula por tanque según lo drenado de cada uno.
	litersPerBottle := queue[0].Tank.LitersPerBottle
	if !litersPerBottle.IsPositive() {
		litersPerBottle = entity.DefaultLitersPerBottle
	}

	count := decimal.NewFromInt(int64(in.Botellones))
	needed := count.Mul(litersPerBottle)

	available := decimal.Zero
	for _, tw := range queue {
		available = available.Add(tw.Product.Quantity)
	}
	if available.LessThan(needed) {
		return nil, domain.ErrInsufficientLiters
	}

	if in.UsedPrepaid {
		if err := uc.checkPrepaid(in.HouseID, in.Botellones); err != nil {
			return nil, err
		}
	}

	result := &ConsumeResult{LitersUsed: needed}
	var lowLevel []*entity.Product

	err = uc.tx.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.InventoryMovementRepository,
		payments repository.PaymentRepository,
		deliveries repository.DeliveryRepository,
	) error {
		remaining := needed
		for _, tw := range queue {
			if !remaining.IsPositive() {
				break
			}
			drained, product, err := uc.drainTank(products, tw, remaining)
			if err != nil {
				return err
			}
			if !drained.IsPositive() {
				continue
			}
			remaining = remaining.Sub(drained)

			notes := in.Notes
			if notes == "" {
				notes = fmt.Sprintf("Llenado FIFO (%d botellones)", in.Botellones)
			}
			mv := &entity.InventoryMovement{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Type:      entity.MovementTypeOut,
				Quantity:  drained,
				Notes:     notes,
				UserID:    in.UserID,
				CreatedAt: time.Now(),
			}
			if err := movements.Create(mv); err != nil {
				return err
			}
			result.Movements = append(result.Movements, ConsumedTank{
				Movement:        mv,
				ProductID:       product.ID,
				ProductName:     product.Name,
				Liters:          drained,
				LitersPerBottle: litersPerBottle,
				PricePerFill:    tw.Tank.PricePerFill,
			})
			if product.LevelPercent() < uc.threshold {
				lowLevel = append(lowLevel, product)
			}
		}
		if remaining.IsPositive() {
			// Otra operación concurrente ganó los litros entre la validación y el drenado.
			return domain.ErrInsufficientLiters
		}
		result.TanksUsed = len(result.Movements)

		if in.HouseID != "" && !in.UsedPrepaid {
			debt, err := uc.registerDebt(payments, in, result.Movements)
			if err != nil {
				return err
			}
			result.Payment = debt
		}

		if in.CreateDelivery && in.HouseID != "" {
			date := in.Date
			if date.IsZero() {
				date = time.Now()
			}
			d := &entity.Delivery{
				ID:          uuid.New().String(),
				HouseID:     in.HouseID,
				Count:       in.Botellones,
				Date:        date,
				UsedPrepaid: in.UsedPrepaid,
				Notes:       in.Notes,
				CreatedAt:   time.Now(),
			}
			if err := deliveries.Create(d); err != nil {
				return err
			}
			result.Delivery = d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyLowLevels(lowLevel)
	return result, nil
}

// checkPrepaid valida el crédito prepago recalculándolo desde los registros.
func (uc *ConsumeUseCase) checkPrepaid(houseID string, count int) error {
	prepaid, err := uc.payments.SumConfirmedPrepaid(houseID)
	if err != nil {
		return err
	}
	used, err := uc.deliveries.SumPrepaidUsed(houseID)
	if err != nil {
		return err
	}
	if prepaid-used < count {
		return domain.ErrInsufficientPrepaid
	}
	return nil
}

// drainTank descuenta del tanque hasta lo solicitado con un decremento atómico
// guardado. Si la guarda falla (carrera con otro consumo o recarga), relee el
// producto y reintenta con la cantidad fresca; con cero disponible pasa al
// siguiente tanque. Devuelve los litros drenados y el producto ya actualizado.
func (uc *ConsumeUseCase) drainTank(products repository.ProductRepository, tw *entity.TankWithProduct, remaining decimal.Decimal) (decimal.Decimal, *entity.Product, error) {
	product := &tw.Product
	for {
		take := remaining
		if take.GreaterThan(product.Quantity) {
			take = product.Quantity
		}
		if !take.IsPositive() {
			return decimal.Zero, product, nil
		}
		ok, err := products.AdjustQuantity(product.ID, take.Neg())
		if err != nil {
			return decimal.Zero, nil, err
		}
		if ok {
			fresh, err := products.GetByID(product.ID)
			if err != nil {
				return decimal.Zero, nil, err
			}
			return take, fresh, nil
		}
		fresh, err := products.GetByID(product.ID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		product = fresh
	}
}

// registerDebt crea (idempotente) la deuda pendiente del llenado. El monto se
// calcula por movimiento: los botellones equivalentes drenados de cada tanque
// al precio de ese tanque, de modo que un llenado que cruza tanques con precios
// distintos cobra cada litro a su precio real.
func (uc *ConsumeUseCase) registerDebt(payments repository.PaymentRepository, in ConsumeInput, consumed []ConsumedTank) (*entity.Payment, error) {
	amount := decimal.Zero
	for _, c := range consumed {
		lpb := c.LitersPerBottle
		if !lpb.IsPositive() {
			lpb = entity.DefaultLitersPerBottle
		}
		amount = amount.Add(c.Liters.Div(lpb).Mul(c.PricePerFill))
	}
	description := fmt.Sprintf("Deuda por llenado (%d)", in.Botellones)

	movementIDs := make([]string, 0, len(consumed))
	for _, c := range consumed {
		movementIDs = append(movementIDs, c.Movement.ID)
	}
	key := idempotency.DebtKey(in.HouseID, amount, description, movementIDs)

	now := time.Now()
	draft := &entity.Payment{
		ID:             uuid.New().String(),
		HouseID:        in.HouseID,
		Amount:         amount,
		Date:           now,
		Description:    description,
		AppliedAmount:  decimal.Zero,
		IdempotencyKey: key,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return payments.UpsertByIdempotencyKey(key, draft)
}

// notifyLowLevels avisa niveles bajos; los fallos solo se registran en el log.
func (uc *ConsumeUseCase) notifyLowLevels(products []*entity.Product) {
	if uc.notifier == nil {
		return
	}
	for _, p := range products {
		if !uc.notifier.NotifyTankLevel(p) {
			uc.log.Warn().
				Str("product_id", p.ID).
				Int("level_percent", p.LevelPercent()).
				Msg("aviso de nivel bajo fallido")
		}
	}
}
