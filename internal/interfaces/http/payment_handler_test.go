package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Aguaflow-api/internal/interfaces/http"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de pagos en memoria para el router (mismas guardas que Postgres)
// ──────────────────────────────────────────────────────────────────────────────

type stubPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

func newStubPaymentRepo(ps ...*entity.Payment) *stubPaymentRepo {
	r := &stubPaymentRepo{payments: make(map[string]*entity.Payment)}
	for _, p := range ps {
		r.payments[p.ID] = p
	}
	return r
}

func (r *stubPaymentRepo) snapshot(id string) *entity.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *stubPaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

func (r *stubPaymentRepo) GetByID(id string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.AppliedKeys = append([]string(nil), p.AppliedKeys...)
	return &cp, nil
}

func (r *stubPaymentRepo) ListWithAmount() ([]*entity.Payment, error)    { return nil, nil }
func (r *stubPaymentRepo) ListByHouse(string) ([]*entity.Payment, error) { return nil, nil }
func (r *stubPaymentRepo) ListPendingByHouse(houseID string) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.HouseID == houseID && !p.Confirmed && !p.Settled && p.PrepaidBotellones == 0 {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) UpsertByIdempotencyKey(key string, draft *entity.Payment) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.IdempotencyKey == key && p.HouseID == draft.HouseID {
			cp := *p
			return &cp, nil
		}
	}
	cp := *draft
	r.payments[draft.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubPaymentRepo) ReserveApplication(paymentID, applyKey string) (bool, error) {
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

func (r *stubPaymentRepo) Settle(targetID, sourceID string, at time.Time) (bool, error) {
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

func (r *stubPaymentRepo) DecrementAmount(targetID string, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[targetID]
	if !ok || p.Confirmed || p.Settled || p.Amount.LessThan(amount) {
		return false, nil
	}
	p.Amount = p.Amount.Sub(amount)
	return true, nil
}

func (r *stubPaymentRepo) SettleZeroed(targetIDs []string, sourceID string, at time.Time) error {
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

func (r *stubPaymentRepo) SettleZeroedByHouse(houseID, excludeID, sourceID string, at time.Time) error {
	return nil
}

func (r *stubPaymentRepo) IncrementApplied(paymentID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return domain.ErrNotFound
	}
	p.AppliedAmount = p.AppliedAmount.Add(amount)
	return nil
}

func (r *stubPaymentRepo) Confirm(*entity.Payment) error { return nil }

func (r *stubPaymentRepo) SumConfirmedPrepaid(string) (int, error) { return 0, nil }

type stubTxRunner struct {
	repo *stubPaymentRepo
}

func (t *stubTxRunner) Supported() bool { return false }
func (t *stubTxRunner) Run(_ context.Context, fn func(repository.PaymentRepository) error) error {
	return fn(t.repo)
}

// buildPaymentsApp arma la aplicación con el router real y solo las
// dependencias del grupo de pagos pobladas.
func buildPaymentsApp(repo *stubPaymentRepo) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CreatePayment: payments.NewCreatePaymentUseCase(repo),
		ApplyPayment:  payments.NewApplyPaymentUseCase(repo, &stubTxRunner{repo: repo}, log),
		JWTSecret:     testJWTSecret,
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, authHeader string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests POST /api/payments
// ──────────────────────────────────────────────────────────────────────────────

// Crear pagos por la ruta directa es exclusivo de admin: un usuario
// autenticado sin ese rol recibe 403 y no se persiste nada.
func TestCrearPago_RolUser_Prohibido(t *testing.T) {
	repo := newStubPaymentRepo()
	app := buildPaymentsApp(repo)

	resp := postJSON(t, app, "/api/payments", tokenForRole(t, "user"), fiber.Map{
		"house_id": "casa-1",
		"amount":   "36",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"user no debe poder crear pagos por la ruta directa")
	assert.Equal(t, 0, repo.count(), "el rechazo no debe persistir ningún pago")
}

// Un admin que crea un pago confirmado con destinos obtiene la aplicación en
// el mismo request: la deuda destino queda liquidada y el pago fuente registra
// el monto aplicado.
func TestCrearPago_AdminConDestinos_AplicaEnElMismoRequest(t *testing.T) {
	debt := &entity.Payment{
		ID:            "d1",
		HouseID:       "casa-1",
		Amount:        decimal.NewFromInt(12),
		Date:          time.Now(),
		AppliedAmount: decimal.Zero,
	}
	repo := newStubPaymentRepo(debt)
	app := buildPaymentsApp(repo)

	resp := postJSON(t, app, "/api/payments", tokenForRole(t, "admin"), fiber.Map{
		"house_id":  "casa-1",
		"amount":    "36",
		"confirmed": true,
		"targets":   []string{"d1"},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	sourceID, _ := body["id"].(string)
	require.NotEmpty(t, sourceID)

	d1 := repo.snapshot("d1")
	require.NotNil(t, d1)
	assert.True(t, d1.Settled, "la deuda destino debe quedar liquidada en el mismo request")
	assert.True(t, d1.Amount.IsZero())
	assert.Equal(t, sourceID, d1.SettledBy)

	source := repo.snapshot(sourceID)
	require.NotNil(t, source)
	assert.True(t, source.AppliedAmount.Equal(decimal.NewFromInt(12)),
		"el pago fuente debe registrar el monto aplicado")
}
