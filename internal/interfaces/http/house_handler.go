package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/dto"
	"github.com/jhoicas/Aguaflow-api/internal/application/houses"
)

// HouseHandler maneja las peticiones HTTP para House (protegido).
type HouseHandler struct {
	uc *houses.UseCase
}

// NewHouseHandler construye el handler.
func NewHouseHandler(uc *houses.UseCase) *HouseHandler {
	return &HouseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear casa
// @Tags         houses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateHouseRequest  true  "Datos de la casa"
// @Success      201   {object}  dto.HouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/houses [post]
func (h *HouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateHouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code es requerido"})
	}
	house, err := h.uc.Create(c.Context(), houses.CreateInput{
		Code: in.Code, Number: in.Number, OwnerName: in.OwnerName,
		Phone: in.Phone, Email: in.Email, Address: in.Address, Notes: in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToHouseResponse(house))
}

// List godoc
// @Summary      Listar casas
// @Tags         houses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.HouseResponse
// @Router       /api/houses [get]
func (h *HouseHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToHouseResponses(list))
}

// GetByID godoc
// @Summary      Obtener casa por ID
// @Tags         houses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la casa"
// @Success      200  {object}  dto.HouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/houses/{id} [get]
func (h *HouseHandler) GetByID(c *fiber.Ctx) error {
	house, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToHouseResponse(house))
}

// Update godoc
// @Summary      Actualizar casa
// @Tags         houses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la casa"
// @Param        body  body  dto.CreateHouseRequest  true  "Datos de la casa"
// @Success      200   {object}  dto.HouseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/houses/{id} [put]
func (h *HouseHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateHouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	house, err := h.uc.Update(c.Context(), c.Params("id"), houses.CreateInput{
		Code: in.Code, Number: in.Number, OwnerName: in.OwnerName,
		Phone: in.Phone, Email: in.Email, Address: in.Address, Notes: in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToHouseResponse(house))
}

// Delete godoc
// @Summary      Eliminar casa
// @Description  El histórico de pagos y entregas queda intacto.
// @Tags         houses
// @Security     Bearer
// @Param        id  path  string  true  "ID de la casa"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/houses/{id} [delete]
func (h *HouseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Detail godoc
// @Summary      Vista completa de la casa
// @Description  Datos, pagos, entregas y saldo prepago.
// @Tags         houses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la casa"
// @Success      200  {object}  dto.HouseDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/houses/{id}/detail [get]
func (h *HouseHandler) Detail(c *fiber.Ctx) error {
	id := c.Params("id")
	detail, err := h.uc.GetDetail(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.HouseDetailResponse{
		House:      dto.ToHouseResponse(detail.House),
		Payments:   dto.ToPaymentResponses(detail.Payments),
		Deliveries: dto.ToDeliveryResponses(detail.Deliveries),
		Balance: dto.PrepaidBalanceResponse{
			HouseID: id,
			Prepaid: detail.Balance.Prepaid,
			Used:    detail.Balance.Used,
			Balance: detail.Balance.Balance,
		},
	})
}

// Debt godoc
// @Summary      Deuda pendiente de la casa
// @Tags         houses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la casa"
// @Success      200  {object}  dto.HouseDebtResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/houses/{id}/debt [get]
func (h *HouseHandler) Debt(c *fiber.Ctx) error {
	id := c.Params("id")
	debt, err := h.uc.GetDebt(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.HouseDebtResponse{
		HouseID:  id,
		Total:    debt.Total,
		Pendings: dto.ToPaymentResponses(debt.Pendings),
	})
}

// Pay godoc
// @Summary      Registrar pago desde la casa
// @Description  Crea el pago idempotente. Targets y apply_to_oldest requieren rol admin; un actor sin ese rol se rechaza antes de crear nada.
// @Tags         houses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la casa"
// @Param        body  body  dto.HousePayRequest  true  "Datos del pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/houses/{id}/pay [post]
func (h *HouseHandler) Pay(c *fiber.Ctx) error {
	var in dto.HousePayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.Pay(c.Context(), c.Params("id"), houses.PayInput{
		Amount:            in.Amount,
		Description:       in.Description,
		PrepaidBotellones: in.PrepaidBotellones,
		IdempotencyKey:    in.IdempotencyKey,
		Targets:           dto.ToTargets(in.Targets),
		ApplyToOldest:     in.ApplyToOldest,
		ActorRole:         GetRole(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPaymentResponse(payment))
}
