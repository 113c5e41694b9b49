package entity

import "time"

// House representa una casa del reparto: la unidad de facturación.
// El código (ej. "P-19") es único y en la práctica no cambia tras la creación.
// Borrar una casa no arrastra sus pagos ni entregas históricas.
type House struct {
	ID        string
	Code      string // ej. P-19
	Number    string
	OwnerName string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
