package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es el registro financiero central.
//
// Un pago sin confirmar y sin liquidar representa una deuda pendiente (ej. la
// generada por una entrega no pagada). Cuando otro pago confirmado absorbe su
// saldo, queda settled=true con amount=0 y SettledBy apunta al pago que lo
// liquidó (referencia solo para auditoría).
//
// Invariantes:
//   - Amount nunca es negativo; una aplicación absorbe como máximo el saldo actual.
//   - settled=true implica amount=0 y exclusión de las vistas de deuda pendiente.
//   - IdempotencyKey es única por solicitud lógica (índice único parcial);
//     reenvíos duplicados resuelven al mismo documento.
//   - AppliedAmount solo crece (incrementos aditivos); AppliedKeys guarda las
//     huellas de lotes de aplicación ya ejecutados para impedir re-aplicación.
type Payment struct {
	ID                string
	HouseID           string
	Amount            decimal.Decimal
	Date              time.Time
	Description       string
	PrepaidBotellones int // botellones de crédito que otorga este pago al confirmarse
	Confirmed         bool
	ConfirmedAt       *time.Time
	ConfirmedBy       string
	Settled           bool
	SettledBy         string // id del pago que lo liquidó
	SettledAt         *time.Time
	AppliedAmount     decimal.Decimal
	AppliedKeys       []string
	IdempotencyKey    string

	// Datos bancarios requeridos para confirmar.
	Reference      string
	Bank           string
	Identification string
	Phone          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending indica si el pago es una deuda pendiente (sin confirmar ni liquidar).
func (p *Payment) IsPending() bool {
	return !p.Confirmed && !p.Settled
}
