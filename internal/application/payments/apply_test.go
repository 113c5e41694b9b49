package payments

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────
// Fakes en memoria con la misma semántica de guardas que Postgres
// ─────────────────────────────────────────────────────────────

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

func (r *fakePaymentRepo) ListWithAmount() ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.Amount.IsPositive() {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakePaymentRepo) ListByHouse(houseID string) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.HouseID == houseID {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakePaymentRepo) ListPendingByHouse(houseID string) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.HouseID == houseID && !p.Confirmed && !p.Settled && p.PrepaidBotellones == 0 {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
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
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.HouseID != houseID || p.ID == excludeID || p.Settled || p.Amount.IsPositive() {
			continue
		}
		p.Settled = true
		p.SettledBy = sourceID
		t := at
		p.SettledAt = &t
	}
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

func (r *fakePaymentRepo) Confirm(in *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[in.ID]
	if !ok {
		return domain.ErrNotFound
	}
	*p = *clonePayment(in)
	return nil
}

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

// fakeTxRunner ejecuta la función directamente sobre el mismo repo, como el
// runner sin transacciones de producción.
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

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func confirmedPayment(id, house, amount string, at time.Time) *entity.Payment {
	return &entity.Payment{
		ID: id, HouseID: house, Amount: dec(amount), Date: at,
		Confirmed: true, AppliedAmount: decimal.Zero,
	}
}

func pendingDebt(id, house, amount string, at time.Time) *entity.Payment {
	return &entity.Payment{
		ID: id, HouseID: house, Amount: dec(amount), Date: at,
		AppliedAmount: decimal.Zero,
	}
}

func newApplyUC(repo *fakePaymentRepo) *ApplyPaymentUseCase {
	return NewApplyPaymentUseCase(repo, &fakeTxRunner{repo: repo}, testLogger())
}

// ─────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────

func TestApply_LiquidaDestinosCompletos(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		pendingDebt("d1", "casa-1", "12", now.Add(-3*time.Hour)),
		pendingDebt("d2", "casa-1", "12", now.Add(-2*time.Hour)),
		pendingDebt("d3", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	targets := []idempotency.Target{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}}
	src, err := uc.Apply(context.Background(), "src", targets, false)
	require.NoError(t, err)

	assert.True(t, src.AppliedAmount.Equal(dec("36")), "debe aplicar el monto completo")

	for _, id := range []string{"d1", "d2", "d3"} {
		d, err := repo.GetByID(id)
		require.NoError(t, err)
		assert.True(t, d.Settled, "deuda %s debe quedar liquidada", id)
		assert.True(t, d.Amount.IsZero(), "deuda %s debe quedar en cero", id)
		assert.Equal(t, "src", d.SettledBy)
	}
}

func TestApply_Conservacion_NuncaAplicaMasDelDisponible(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "20", now),
		pendingDebt("d1", "casa-1", "12", now.Add(-2*time.Hour)),
		pendingDebt("d2", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	src, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "d1"}, {ID: "d2"}}, false)
	require.NoError(t, err)

	assert.True(t, src.AppliedAmount.Equal(dec("20")))

	d1, _ := repo.GetByID("d1")
	d2, _ := repo.GetByID("d2")
	assert.True(t, d1.Settled, "la primera deuda queda liquidada completa")
	assert.False(t, d2.Settled, "la segunda solo recibe el remanente")
	assert.True(t, d2.Amount.Equal(dec("4")), "12 - 8 remanentes = 4, quedó %s", d2.Amount)
}

func TestApply_ReenvioIdentico_NoReaplica(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		pendingDebt("d1", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	targets := []idempotency.Target{{ID: "d1"}}
	first, err := uc.Apply(context.Background(), "src", targets, false)
	require.NoError(t, err)
	assert.True(t, first.AppliedAmount.Equal(dec("12")))

	// Mismo lote otra vez: la reserva ya existe, nada cambia.
	second, err := uc.Apply(context.Background(), "src", targets, false)
	require.NoError(t, err)
	assert.True(t, second.AppliedAmount.Equal(dec("12")), "el reenvío no debe acumular nada")
}

func TestApply_DobleClick36Contra3De12(t *testing.T) {
	// Dos solicitudes idénticas de aplicar $36 contra tres deudas de $12.
	// Solo una gana la reserva; el total aplicado debe ser exactamente 36.
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		pendingDebt("d1", "casa-1", "12", now.Add(-3*time.Hour)),
		pendingDebt("d2", "casa-1", "12", now.Add(-2*time.Hour)),
		pendingDebt("d3", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)
	targets := []idempotency.Target{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Apply(context.Background(), "src", targets, false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	src, err := repo.GetByID("src")
	require.NoError(t, err)
	assert.True(t, src.AppliedAmount.Equal(dec("36")),
		"el total aplicado debe ser 36 exacto, quedó %s", src.AppliedAmount)
	for _, id := range []string{"d1", "d2", "d3"} {
		d, _ := repo.GetByID(id)
		assert.True(t, d.Settled)
		assert.Equal(t, "src", d.SettledBy, "cada deuda se liquida una sola vez")
	}
}

func TestApply_PagoSinConfirmar_Rechazado(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(pendingDebt("src", "casa-1", "36", now))
	uc := newApplyUC(repo)

	_, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "x"}}, false)
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)
}

func TestApply_DestinoDeOtraCasa_Omitido(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		pendingDebt("ajena", "casa-2", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	src, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "ajena"}}, false)
	require.NoError(t, err)

	assert.True(t, src.AppliedAmount.IsZero(), "no debe aplicar a deudas de otra casa")
	ajena, _ := repo.GetByID("ajena")
	assert.False(t, ajena.Settled)
	assert.True(t, ajena.Amount.Equal(dec("12")))
}

func TestApply_DestinoYaConfirmadoOLiquidado_Omitido(t *testing.T) {
	now := time.Now()
	conf := confirmedPayment("conf", "casa-1", "12", now.Add(-2*time.Hour))
	liq := pendingDebt("liq", "casa-1", "0", now.Add(-1*time.Hour))
	liq.Settled = true
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		conf, liq,
	)
	uc := newApplyUC(repo)

	src, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "conf"}, {ID: "liq"}}, false)
	require.NoError(t, err)
	assert.True(t, src.AppliedAmount.IsZero())
}

func TestApply_ConMontoSugerido_AplicaParcial(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "36", now),
		pendingDebt("d1", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	hint := dec("5")
	src, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "d1", Amount: &hint}}, false)
	require.NoError(t, err)

	assert.True(t, src.AppliedAmount.Equal(dec("5")))
	d1, _ := repo.GetByID("d1")
	assert.False(t, d1.Settled)
	assert.True(t, d1.Amount.Equal(dec("7")))
}

func TestApply_AplicarALasMasAntiguas_OrdenFIFO(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "20", now),
		pendingDebt("vieja", "casa-1", "12", now.Add(-48*time.Hour)),
		pendingDebt("media", "casa-1", "12", now.Add(-24*time.Hour)),
		pendingDebt("nueva", "casa-1", "12", now.Add(-1*time.Hour)),
	)
	uc := newApplyUC(repo)

	src, err := uc.Apply(context.Background(), "src", nil, true)
	require.NoError(t, err)
	assert.True(t, src.AppliedAmount.Equal(dec("20")))

	vieja, _ := repo.GetByID("vieja")
	media, _ := repo.GetByID("media")
	nueva, _ := repo.GetByID("nueva")
	assert.True(t, vieja.Settled, "la más antigua se liquida primero")
	assert.False(t, media.Settled)
	assert.True(t, media.Amount.Equal(dec("4")), "la segunda recibe solo el remanente")
	assert.True(t, nueva.Amount.Equal(dec("12")), "la más nueva queda intacta")
}

func TestApply_MasAntiguas_IgnoraDeudasConPrepago(t *testing.T) {
	now := time.Now()
	prepago := pendingDebt("prepago", "casa-1", "40", now.Add(-72*time.Hour))
	prepago.PrepaidBotellones = 10
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "12", now),
		prepago,
		pendingDebt("normal", "casa-1", "12", now.Add(-24*time.Hour)),
	)
	uc := newApplyUC(repo)

	_, err := uc.Apply(context.Background(), "src", nil, true)
	require.NoError(t, err)

	p, _ := repo.GetByID("prepago")
	n, _ := repo.GetByID("normal")
	assert.False(t, p.Settled, "las compras de prepago no son deudas aplicables")
	assert.True(t, p.Amount.Equal(dec("40")))
	assert.True(t, n.Settled)
}

func TestApply_DestinosYLuegoMasAntiguas_UsaSoloElRemanente(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(
		confirmedPayment("src", "casa-1", "20", now),
		pendingDebt("expreso", "casa-1", "12", now.Add(-1*time.Hour)),
		pendingDebt("antigua", "casa-1", "12", now.Add(-48*time.Hour)),
	)
	uc := newApplyUC(repo)

	src, err := uc.Apply(context.Background(), "src", []idempotency.Target{{ID: "expreso"}}, true)
	require.NoError(t, err)

	assert.True(t, src.AppliedAmount.Equal(dec("20")))
	expreso, _ := repo.GetByID("expreso")
	antigua, _ := repo.GetByID("antigua")
	assert.True(t, expreso.Settled)
	assert.False(t, antigua.Settled)
	assert.True(t, antigua.Amount.Equal(dec("4")), "el barrido solo dispone del remanente tras los destinos")
}

func TestCreate_MismaSolicitud_ResuelveAlMismoPago(t *testing.T) {
	repo := newFakePaymentRepo()
	uc := NewCreatePaymentUseCase(repo)

	in := CreateInput{HouseID: "casa-1", Amount: dec("36"), Description: "Pago móvil"}
	first, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "reenvíos idénticos resuelven al mismo documento")
}

func TestCreate_ClaveExplicita_TienePrioridad(t *testing.T) {
	repo := newFakePaymentRepo()
	uc := NewCreatePaymentUseCase(repo)

	a, err := uc.Create(context.Background(), CreateInput{
		HouseID: "casa-1", Amount: dec("10"), IdempotencyKey: "cliente-abc",
	})
	require.NoError(t, err)

	// Cuerpo distinto, misma clave: devuelve el documento previo sin tocar.
	b, err := uc.Create(context.Background(), CreateInput{
		HouseID: "casa-1", Amount: dec("99"), IdempotencyKey: "cliente-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.True(t, b.Amount.Equal(dec("10")), "la clave manda, el cuerpo nuevo no sobrescribe")
}

func TestConfirm_DatosBancariosIncompletos(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(pendingDebt("p1", "casa-1", "36", now))
	uc := NewConfirmPaymentUseCase(repo)

	_, err := uc.Confirm(context.Background(), "p1", ConfirmInput{Reference: "123", Bank: "Banesco"})
	assert.ErrorIs(t, err, domain.ErrIncompleteBankData)
}

func TestConfirm_YaConfirmado(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(confirmedPayment("p1", "casa-1", "36", now))
	uc := NewConfirmPaymentUseCase(repo)

	_, err := uc.Confirm(context.Background(), "p1", ConfirmInput{
		Reference: "123", Bank: "Banesco", Identification: "V-123", Phone: "0414",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
}

func TestConfirm_Exitoso(t *testing.T) {
	now := time.Now()
	repo := newFakePaymentRepo(pendingDebt("p1", "casa-1", "36", now))
	uc := NewConfirmPaymentUseCase(repo)

	p, err := uc.Confirm(context.Background(), "p1", ConfirmInput{
		Reference: "123456", Bank: "Banesco", Identification: "V-12345678", Phone: "0414-1234567",
		ConfirmedBy: "admin-1",
	})
	require.NoError(t, err)
	assert.True(t, p.Confirmed)
	require.NotNil(t, p.ConfirmedAt)
	assert.Equal(t, "admin-1", p.ConfirmedBy)

	stored, _ := repo.GetByID("p1")
	assert.True(t, stored.Confirmed)
	assert.Equal(t, "123456", stored.Reference)
}

func TestBalance_PrepagoMenosConsumido(t *testing.T) {
	now := time.Now()
	conPrepago := confirmedPayment("p1", "casa-1", "100", now)
	conPrepago.PrepaidBotellones = 10
	sinConfirmar := pendingDebt("p2", "casa-1", "100", now)
	sinConfirmar.PrepaidBotellones = 5

	repo := newFakePaymentRepo(conPrepago, sinConfirmar)
	deliveries := &fakeDeliveryRepo{used: map[string]int{"casa-1": 3}}
	uc := NewBalanceUseCase(repo, deliveries)

	b, err := uc.ByHouse(context.Background(), "casa-1")
	require.NoError(t, err)
	assert.Equal(t, 10, b.Prepaid, "solo pagos confirmados otorgan crédito")
	assert.Equal(t, 3, b.Used)
	assert.Equal(t, 7, b.Balance)
}

type fakeDeliveryRepo struct {
	deliveries []*entity.Delivery
	used       map[string]int
}

var _ repository.DeliveryRepository = (*fakeDeliveryRepo)(nil)

func (r *fakeDeliveryRepo) Create(d *entity.Delivery) error {
	r.deliveries = append(r.deliveries, d)
	if d.UsedPrepaid {
		if r.used == nil {
			r.used = make(map[string]int)
		}
		r.used[d.HouseID] += d.Count
	}
	return nil
}

func (r *fakeDeliveryRepo) List() ([]*entity.Delivery, error) { return r.deliveries, nil }

func (r *fakeDeliveryRepo) ListByHouse(houseID string) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.deliveries {
		if d.HouseID == houseID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDeliveryRepo) SumPrepaidUsed(houseID string) (int, error) {
	return r.used[houseID], nil
}
