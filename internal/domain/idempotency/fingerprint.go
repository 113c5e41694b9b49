// Package idempotency centraliza la derivación de huellas de idempotencia.
//
// Toda huella se calcula aquí (nunca inline en handlers ni casos de uso) para
// que la canonicalización sea idéntica en todos los puntos de entrada: lista
// de destinos ordenada por id, orden de campos estable y montos serializados
// como texto decimal exacto. Dos solicitudes lógicamente equivalentes producen
// siempre la misma huella aunque el caller reordene los destinos.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// Target referencia normalizada a un pago destino de una aplicación.
// Amount es una pista opcional de cuánto absorber de ese destino.
type Target struct {
	ID     string           `json:"id"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// NormalizeTargets devuelve una copia de los destinos ordenada por id.
// Reordenar el mismo conjunto no cambia la huella resultante.
func NormalizeTargets(targets []Target) []Target {
	out := make([]Target, len(targets))
	copy(out, targets)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// canónico del pago manual: casa + monto + descripción + prepago + destinos ordenados.
type paymentPayload struct {
	House             string   `json:"house"`
	Amount            string   `json:"amount"`
	Description       string   `json:"description"`
	PrepaidBotellones int      `json:"prepaidBotellones"`
	Targets           []Target `json:"targets"`
}

// PaymentKey huella para la creación de un pago manual.
func PaymentKey(houseID string, amount decimal.Decimal, description string, prepaidBotellones int, targets []Target) string {
	return digest(paymentPayload{
		House:             houseID,
		Amount:            amount.String(),
		Description:       description,
		PrepaidBotellones: prepaidBotellones,
		Targets:           NormalizeTargets(targets),
	})
}

// canónico de la deuda generada por un consumo de tanques: el conjunto de
// movimientos emitidos identifica el consumo concreto.
type debtPayload struct {
	House       string   `json:"house"`
	Amount      string   `json:"amount"`
	Description string   `json:"description"`
	Movements   []string `json:"movements"`
}

// DebtKey huella para la deuda pendiente creada por un consumo FIFO.
func DebtKey(houseID string, amount decimal.Decimal, description string, movementIDs []string) string {
	ids := make([]string, len(movementIDs))
	copy(ids, movementIDs)
	sort.Strings(ids)
	return digest(debtPayload{
		House:       houseID,
		Amount:      amount.String(),
		Description: description,
		Movements:   ids,
	})
}

// canónico de una operación de aplicación sobre destinos explícitos.
type applyPayload struct {
	ApplyToOldest bool     `json:"applyToOldest"`
	Targets       []Target `json:"targets,omitempty"`
	PaymentID     string   `json:"paymentId,omitempty"`
}

// ApplyKey huella de reserva para aplicar un pago a un conjunto de destinos.
func ApplyKey(targets []Target) string {
	return digest(applyPayload{ApplyToOldest: false, Targets: NormalizeTargets(targets)})
}

// ApplyToOldestKey huella de reserva para el barrido "aplicar a las más antiguas".
func ApplyToOldestKey(paymentID string) string {
	return digest(applyPayload{ApplyToOldest: true, PaymentID: paymentID})
}

func digest(payload any) string {
	// json.Marshal serializa los campos de un struct en orden de declaración,
	// así que la representación es estable para un mismo payload.
	raw, err := json.Marshal(payload)
	if err != nil {
		// Los payloads son structs propios sin tipos no serializables.
		panic("idempotency: payload no serializable: " + err.Error())
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
