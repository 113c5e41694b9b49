package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

// CreateDeliveryRequest body para POST /api/deliveries.
type CreateDeliveryRequest struct {
	HouseID     string     `json:"house_id" validate:"required"`
	Count       int        `json:"count" validate:"required,min=1"`
	Date        *time.Time `json:"date,omitempty"` // por defecto ahora
	UsedPrepaid bool       `json:"used_prepaid"`
	Notes       string     `json:"notes"`
}

// DeliveryResponse entrega en respuestas.
type DeliveryResponse struct {
	ID          string    `json:"id"`
	HouseID     string    `json:"house_id"`
	Count       int       `json:"count"`
	Date        time.Time `json:"date"`
	UsedPrepaid bool      `json:"used_prepaid"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDeliveryResponse convierte la entidad a DTO.
func ToDeliveryResponse(d *entity.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:          d.ID,
		HouseID:     d.HouseID,
		Count:       d.Count,
		Date:        d.Date,
		UsedPrepaid: d.UsedPrepaid,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDeliveryResponses convierte la lista.
func ToDeliveryResponses(ds []*entity.Delivery) []DeliveryResponse {
	out := make([]DeliveryResponse, len(ds))
	for i, d := range ds {
		out[i] = ToDeliveryResponse(d)
	}
	return out
}

// ConsumedTankDTO detalle de lo drenado de un tanque en un llenado.
type ConsumedTankDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Liters      decimal.Decimal `json:"liters"`
	MovementID  string          `json:"movement_id"`
}

// ConsumeResultResponse resultado de un llenado FIFO.
type ConsumeResultResponse struct {
	TanksUsed  int               `json:"tanks_used"`
	LitersUsed decimal.Decimal   `json:"liters_used"`
	Tanks      []ConsumedTankDTO `json:"tanks"`
	Payment    *PaymentResponse  `json:"payment,omitempty"` // deuda generada, ausente con prepago
	Delivery   *DeliveryResponse `json:"delivery,omitempty"`
}

// ToConsumeResultResponse convierte el resultado del motor FIFO.
func ToConsumeResultResponse(r *tanks.ConsumeResult) ConsumeResultResponse {
	out := ConsumeResultResponse{
		TanksUsed:  r.TanksUsed,
		LitersUsed: r.LitersUsed,
		Tanks:      make([]ConsumedTankDTO, len(r.Movements)),
	}
	for i, c := range r.Movements {
		out.Tanks[i] = ConsumedTankDTO{
			ProductID:   c.ProductID,
			ProductName: c.ProductName,
			Liters:      c.Liters,
			MovementID:  c.Movement.ID,
		}
	}
	if r.Payment != nil {
		p := ToPaymentResponse(r.Payment)
		out.Payment = &p
	}
	if r.Delivery != nil {
		d := ToDeliveryResponse(r.Delivery)
		out.Delivery = &d
	}
	return out
}
