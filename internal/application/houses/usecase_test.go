package houses

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────
// Fakes en memoria (mismas guardas que Postgres)
// ─────────────────────────────────────────────────────────────

type fakeHouseRepo struct {
	houses map[string]*entity.House
}

var _ repository.HouseRepository = (*fakeHouseRepo)(nil)

func (r *fakeHouseRepo) Create(h *entity.House) error { return nil }
func (r *fakeHouseRepo) GetByID(id string) (*entity.House, error) {
	h, ok := r.houses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return h, nil
}
func (r *fakeHouseRepo) List() ([]*entity.House, error) { return nil, nil }
func (r *fakeHouseRepo) Update(h *entity.House) error   { return nil }
func (r *fakeHouseRepo) Delete(id string) error         { return nil }

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

var _ repository.PaymentRepository = (*fakePaymentRepo)(nil)

func newFakePaymentRepo(ps ...*entity.Payment) *fakePaymentRepo {
	r := &fakePaymentRepo{payments: make(map[string]*entity.Payment)}
	for _, p := range ps {
		r.payments[p.ID] = p
	}
	return r
}

func clonePayment(p *entity.Payment) *entity.Payment {
	cp := *p
	cp.AppliedKeys = append([]string(nil), p.AppliedKeys...)
	return &cp
}

func (r *fakePaymentRepo) GetByID(id string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePayment(p), nil
}

func (r *fakePaymentRepo) ListWithAmount() ([]*entity.Payment, error)    { return nil, nil }
func (r *fakePaymentRepo) ListByHouse(string) ([]*entity.Payment, error) { return nil, nil }

func (r *fakePaymentRepo) ListPendingByHouse(houseID string) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.HouseID == houseID && !p.Confirmed && !p.Settled && p.PrepaidBotellones == 0 {
			out = append(out, clonePayment(p))
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpsertByIdempotencyKey(key string, draft *entity.Payment) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.IdempotencyKey == key && p.HouseID == draft.HouseID {
			return clonePayment(p), nil
		}
	}
	r.payments[draft.ID] = clonePayment(draft)
	return clonePayment(draft), nil
}

func (r *fakePaymentRepo) ReserveApplication(paymentID, applyKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return false, domain.ErrNotFound
	}
	for _, k := range p.AppliedKeys {
		if k == applyKey {
			return false, nil
		}
	}
	p.AppliedKeys = append(p.AppliedKeys, applyKey)
	return true, nil
}

func (r *fakePaymentRepo) Settle(targetID, sourceID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[targetID]
	if !ok || p.Confirmed || p.Settled {
		return false, nil
	}
	p.Settled = true
	p.Amount = decimal.Zero
	p.SettledBy = sourceID
	t := at
	p.SettledAt = &t
	return true, nil
}

func (r *fakePaymentRepo) DecrementAmount(targetID string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[targetID]
	if !ok || p.Confirmed || p.Settled || p.Amount.LessThan(amount) {
		return false, nil
	}
	p.Amount = p.Amount.Sub(amount)
	return true, nil
}

func (r *fakePaymentRepo) SettleZeroed(targetIDs []string, sourceID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range targetIDs {
		p, ok := r.payments[id]
		if !ok || p.Settled || p.Amount.IsPositive() {
			continue
		}
		p.Settled = true
		p.SettledBy = sourceID
		t := at
		p.SettledAt = &t
	}
	return nil
}

func (r *fakePaymentRepo) SettleZeroedByHouse(houseID, excludeID, sourceID string, at time.Time) error {
	return nil
}

func (r *fakePaymentRepo) IncrementApplied(paymentID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return domain.ErrNotFound
	}
	p.AppliedAmount = p.AppliedAmount.Add(amount)
	return nil
}

func (r *fakePaymentRepo) Confirm(*entity.Payment) error { return nil }

func (r *fakePaymentRepo) SumConfirmedPrepaid(houseID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, p := range r.payments {
		if p.HouseID == houseID && p.Confirmed {
			total += p.PrepaidBotellones
		}
	}
	return total, nil
}

type fakeTxRunner struct {
	repo *fakePaymentRepo
}

func (t *fakeTxRunner) Supported() bool { return false }
func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.PaymentRepository) error) error {
	return fn(t.repo)
}

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newPayFixture(repo *fakePaymentRepo) *UseCase {
	housesRepo := &fakeHouseRepo{houses: map[string]*entity.House{
		"casa-1": {ID: "casa-1", Code: "C-1"},
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	create := payments.NewCreatePaymentUseCase(repo)
	apply := payments.NewApplyPaymentUseCase(repo, &fakeTxRunner{repo: repo}, log)
	return NewUseCase(housesRepo, repo, nil, create, apply, nil)
}

func pendingDebt(id, house, amount string, at time.Time) *entity.Payment {
	return &entity.Payment{
		ID: id, HouseID: house, Amount: dec(amount), Date: at,
		AppliedAmount: decimal.Zero,
	}
}

// ─────────────────────────────────────────────────────────────
// Tests Pay
// ─────────────────────────────────────────────────────────────

// Dirigir el pago a destinos es privilegio de admin: un actor sin ese rol se
// rechaza antes de persistir nada.
func TestPay_DestinosSinRolAdmin_RechazadoAntesDeCrear(t *testing.T) {
	repo := newFakePaymentRepo(pendingDebt("d1", "casa-1", "12", time.Now()))
	uc := newPayFixture(repo)

	_, err := uc.Pay(context.Background(), "casa-1", PayInput{
		Amount:    dec("36"),
		Targets:   []idempotency.Target{{ID: "d1"}},
		ActorRole: entity.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Len(t, repo.payments, 1, "el rechazo ocurre antes de crear el pago")
	d1, _ := repo.GetByID("d1")
	assert.False(t, d1.Settled)
}

// Un abono registrado desde la casa es dinero recibido: nace confirmado sin
// importar el rol, cuenta su prepago y jamás aparece como deuda pendiente.
func TestPay_SinRolAdmin_PagoNaceConfirmado(t *testing.T) {
	repo := newFakePaymentRepo()
	uc := newPayFixture(repo)

	p, err := uc.Pay(context.Background(), "casa-1", PayInput{
		Amount:            dec("20"),
		Description:       "abono",
		PrepaidBotellones: 2,
		ActorRole:         entity.RoleUser,
	})
	require.NoError(t, err)

	assert.True(t, p.Confirmed, "el abono de la casa nace confirmado")
	assert.False(t, p.IsPending())

	pendings, err := uc.GetDebt(context.Background(), "casa-1")
	require.NoError(t, err)
	assert.Empty(t, pendings.Pendings, "un abono confirmado no es deuda")

	prepaid, err := repo.SumConfirmedPrepaid("casa-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prepaid, "el prepago del abono cuenta de inmediato")
}

// Con rol admin y destinos el pago se aplica en el mismo request.
func TestPay_Admin_AplicaDestinosDeInmediato(t *testing.T) {
	repo := newFakePaymentRepo(pendingDebt("d1", "casa-1", "12", time.Now()))
	uc := newPayFixture(repo)

	p, err := uc.Pay(context.Background(), "casa-1", PayInput{
		Amount:    dec("36"),
		Targets:   []idempotency.Target{{ID: "d1"}},
		ActorRole: entity.RoleAdmin,
	})
	require.NoError(t, err)

	assert.True(t, p.AppliedAmount.Equal(dec("12")))
	d1, _ := repo.GetByID("d1")
	assert.True(t, d1.Settled)
	assert.True(t, d1.Amount.IsZero())
}
