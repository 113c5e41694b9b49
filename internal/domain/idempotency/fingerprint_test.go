package idempotency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aguaflow-api/internal/domain/idempotency"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// La huella debe ser estable frente al reordenamiento del mismo conjunto de destinos.
func TestPaymentKey_IndependienteDelOrdenDeDestinos(t *testing.T) {
	amount := decimal.NewFromInt(36)
	a := []idempotency.Target{{ID: "p-1", Amount: dec("12")}, {ID: "p-2", Amount: dec("12")}, {ID: "p-3", Amount: dec("12")}}
	b := []idempotency.Target{{ID: "p-3", Amount: dec("12")}, {ID: "p-1", Amount: dec("12")}, {ID: "p-2", Amount: dec("12")}}

	k1 := idempotency.PaymentKey("casa-1", amount, "abono", 0, a)
	k2 := idempotency.PaymentKey("casa-1", amount, "abono", 0, b)
	assert.Equal(t, k1, k2, "reordenar los destinos no debe cambiar la huella")
}

// Cambiar cualquier campo lógico debe producir otra huella.
func TestPaymentKey_CambiaConElContenido(t *testing.T) {
	amount := decimal.NewFromInt(36)
	base := idempotency.PaymentKey("casa-1", amount, "abono", 0, nil)

	assert.NotEqual(t, base, idempotency.PaymentKey("casa-2", amount, "abono", 0, nil))
	assert.NotEqual(t, base, idempotency.PaymentKey("casa-1", decimal.NewFromInt(37), "abono", 0, nil))
	assert.NotEqual(t, base, idempotency.PaymentKey("casa-1", amount, "otro", 0, nil))
	assert.NotEqual(t, base, idempotency.PaymentKey("casa-1", amount, "abono", 2, nil))
}

func TestDebtKey_OrdenDeMovimientosIrrelevante(t *testing.T) {
	amount := decimal.NewFromInt(24)
	k1 := idempotency.DebtKey("casa-1", amount, "Deuda por llenado (2)", []string{"m-2", "m-1"})
	k2 := idempotency.DebtKey("casa-1", amount, "Deuda por llenado (2)", []string{"m-1", "m-2"})
	assert.Equal(t, k1, k2)
}

func TestApplyKey_DistingueDestinosYBarrido(t *testing.T) {
	targets := []idempotency.Target{{ID: "p-1"}, {ID: "p-2"}}

	explicit := idempotency.ApplyKey(targets)
	oldest := idempotency.ApplyToOldestKey("pago-9")

	require.NotEmpty(t, explicit)
	require.NotEmpty(t, oldest)
	assert.NotEqual(t, explicit, oldest, "aplicación explícita y barrido usan reservas distintas")

	// La pista de monto forma parte de la identidad del lote.
	withHint := idempotency.ApplyKey([]idempotency.Target{{ID: "p-1", Amount: dec("5")}, {ID: "p-2"}})
	assert.NotEqual(t, explicit, withHint)
}

func TestNormalizeTargets_NoMutaElOriginal(t *testing.T) {
	in := []idempotency.Target{{ID: "b"}, {ID: "a"}}
	out := idempotency.NormalizeTargets(in)

	assert.Equal(t, "b", in[0].ID, "la entrada del caller no debe mutarse")
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}
