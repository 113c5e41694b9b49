package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/deliveries"
	"github.com/jhoicas/Aguaflow-api/internal/application/dto"
)

// DeliveryHandler maneja las peticiones HTTP para Delivery (protegido).
type DeliveryHandler struct {
	uc *deliveries.UseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *deliveries.UseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar entrega
// @Description  Drena los tanques en orden FIFO y genera la deuda (o descuenta prepago) en la misma operación.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Datos de la entrega"
// @Success      201   {object}  dto.ConsumeResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.HouseID == "" || in.Count <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "house_id y count son requeridos"})
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	res, err := h.uc.Register(c.Context(), deliveries.RegisterInput{
		HouseID:     in.HouseID,
		Count:       in.Count,
		Date:        date,
		UsedPrepaid: in.UsedPrepaid,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToConsumeResultResponse(res))
}

// List godoc
// @Summary      Listar entregas
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DeliveryResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDeliveryResponses(list))
}

// ListByHouse godoc
// @Summary      Entregas de una casa
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        houseId  path  string  true  "ID de la casa"
// @Success      200      {array}  dto.DeliveryResponse
// @Router       /api/deliveries/house/{houseId} [get]
func (h *DeliveryHandler) ListByHouse(c *fiber.Ctx) error {
	list, err := h.uc.ListByHouse(c.Context(), c.Params("houseId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToDeliveryResponses(list))
}
