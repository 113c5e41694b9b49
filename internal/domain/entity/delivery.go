package entity

import "time"

// Delivery registro inmutable de una entrega de botellones a una casa.
// Nunca se actualiza tras su creación (entrada de libro append-only).
type Delivery struct {
	ID          string
	HouseID     string
	Count       int
	Date        time.Time
	UsedPrepaid bool // pagada con crédito de botellones prepagados
	Notes       string
	CreatedAt   time.Time
}
