package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/dto"
	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
)

// TankHandler maneja las peticiones HTTP para Tank (protegido).
type TankHandler struct {
	manage  *tanks.ManageUseCase
	consume *tanks.ConsumeUseCase
}

// NewTankHandler construye el handler.
func NewTankHandler(manage *tanks.ManageUseCase, consume *tanks.ConsumeUseCase) *TankHandler {
	return &TankHandler{manage: manage, consume: consume}
}

// Create godoc
// @Summary      Crear tanque (admin)
// @Description  Crea el producto volumétrico y su tanque operativo.
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTankRequest  true  "Datos del tanque"
// @Success      201   {object}  dto.TankResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tanks [post]
func (h *TankHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTankRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tw, err := h.manage.CreateTank(c.Context(), tanks.CreateTankInput{
		Name:            in.Name,
		Capacity:        in.Capacity,
		InitialLiters:   in.InitialLiters,
		LitersPerBottle: in.LitersPerBottle,
		PricePerFill:    in.PricePerFill,
		Active:          in.Active,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTankResponse(tw))
}

// Summary godoc
// @Summary      Resumen de tanques
// @Description  Estado y nivel de cada tanque no eliminado, con su historial de recargas.
// @Tags         tanks
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TankSummaryResponse
// @Router       /api/tanks/summary [get]
func (h *TankHandler) Summary(c *fiber.Ctx) error {
	list, err := h.manage.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TankSummaryResponse, len(list))
	for i, s := range list {
		out[i] = dto.ToTankSummaryResponse(s)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tanque (admin)
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del tanque"
// @Param        body  body  dto.UpdateTankRequest  true  "Cambios"
// @Success      200   {object}  dto.TankResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tanks/{id} [put]
func (h *TankHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTankRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tank, err := h.manage.UpdateTank(c.Context(), c.Params("id"), tanks.UpdateTankInput{
		LitersPerBottle: in.LitersPerBottle,
		PricePerFill:    in.PricePerFill,
		Active:          in.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tank)
}

// Recharge godoc
// @Summary      Recargar tanque (admin)
// @Description  Agrega litros sin exceder la capacidad; devuelve lo realmente agregado.
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del tanque"
// @Param        body  body  dto.RechargeTankRequest  true  "Litros"
// @Success      200   {object}  dto.RechargeResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tanks/{id}/recharge [post]
func (h *TankHandler) Recharge(c *fiber.Ctx) error {
	var in dto.RechargeTankRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	added, product, err := h.manage.Recharge(c.Context(), c.Params("id"), in.Liters, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RechargeResultResponse{
		Added:        added,
		Liters:       product.Quantity,
		LevelPercent: product.LevelPercent(),
	})
}

// Fill godoc
// @Summary      Llenado FIFO de botellones (admin)
// @Description  Drena los tanques activos. Con house_id genera la deuda (o descuenta prepago); sin house_id es un drenado puro. La entrega se registra vía /api/deliveries.
// @Tags         tanks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FillRequest  true  "Datos del llenado"
// @Success      200   {object}  dto.ConsumeResultResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/tanks/fill [post]
func (h *TankHandler) Fill(c *fiber.Ctx) error {
	var in dto.FillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Botellones <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "botellones es requerido"})
	}
	res, err := h.consume.Consume(c.Context(), tanks.ConsumeInput{
		HouseID:     in.HouseID,
		Botellones:  in.Botellones,
		UsedPrepaid: in.UsedPrepaid,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConsumeResultResponse(res))
}

// Deactivate godoc
// @Summary      Desactivar tanque (admin)
// @Description  Saca el tanque de la cola FIFO de consumo.
// @Tags         tanks
// @Security     Bearer
// @Param        id  path  string  true  "ID del tanque"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tanks/{id}/deactivate [post]
func (h *TankHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.manage.Deactivate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar tanque (admin)
// @Description  Eliminación lógica; un tanque activo devuelve 409.
// @Tags         tanks
// @Security     Bearer
// @Param        id  path  string  true  "ID del tanque"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tanks/{id} [delete]
func (h *TankHandler) Delete(c *fiber.Ctx) error {
	if err := h.manage.SoftDelete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
