package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/dto"
	"github.com/jhoicas/Aguaflow-api/internal/application/payments"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// ReceiptPDF genera el recibo PDF de un pago.
type ReceiptPDF interface {
	GenerateReceipt(ctx context.Context, payment *entity.Payment, house *entity.House) ([]byte, error)
}

// PaymentHandler maneja las peticiones HTTP para Payment (protegido).
type PaymentHandler struct {
	create  *payments.CreatePaymentUseCase
	confirm *payments.ConfirmPaymentUseCase
	apply   *payments.ApplyPaymentUseCase
	balance *payments.BalanceUseCase
	query   *payments.QueryUseCase
	houses  repository.HouseRepository
	receipt ReceiptPDF
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(
	create *payments.CreatePaymentUseCase,
	confirm *payments.ConfirmPaymentUseCase,
	apply *payments.ApplyPaymentUseCase,
	balance *payments.BalanceUseCase,
	query *payments.QueryUseCase,
	houses repository.HouseRepository,
	receipt ReceiptPDF,
) *PaymentHandler {
	return &PaymentHandler{
		create: create, confirm: confirm, apply: apply,
		balance: balance, query: query, houses: houses, receipt: receipt,
	}
}

// Create godoc
// @Summary      Crear pago (admin)
// @Description  Resolve-o-crea: reenvíos con el mismo cuerpo (o la misma idempotency_key) devuelven el mismo pago. Si trae destinos y el pago queda confirmado, se aplica de inmediato.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentRequest  true  "Datos del pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.HouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "house_id es requerido"})
	}
	targets := dto.ToTargets(in.Targets)
	payment, err := h.create.Create(c.Context(), payments.CreateInput{
		HouseID:           in.HouseID,
		Amount:            in.Amount,
		Description:       in.Description,
		PrepaidBotellones: in.PrepaidBotellones,
		Confirmed:         in.Confirmed,
		IdempotencyKey:    in.IdempotencyKey,
		Targets:           targets,
	})
	if err != nil {
		return respondError(c, err)
	}
	// Con destinos y pago confirmado se aplica en el mismo request, igual que
	// el pago desde la casa.
	if len(targets) > 0 && payment.Confirmed {
		payment, err = h.apply.Apply(c.Context(), payment.ID, targets, false)
		if err != nil {
			return respondError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPaymentResponse(payment))
}

// List godoc
// @Summary      Listar pagos con saldo
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	list, err := h.query.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponses(list))
}

// GetByID godoc
// @Summary      Obtener pago por ID
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	payment, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponse(payment))
}

// ListByHouse godoc
// @Summary      Pagos de una casa
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        houseId  path  string  true  "ID de la casa"
// @Success      200      {array}  dto.PaymentResponse
// @Router       /api/payments/house/{houseId} [get]
func (h *PaymentHandler) ListByHouse(c *fiber.Ctx) error {
	list, err := h.query.ListByHouse(c.Context(), c.Params("houseId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponses(list))
}

// Confirm godoc
// @Summary      Confirmar pago (admin)
// @Description  Requiere los cuatro datos bancarios. Un pago ya confirmado devuelve 409.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del pago"
// @Param        body  body  dto.ConfirmPaymentRequest  true  "Datos bancarios"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/confirm [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.confirm.Confirm(c.Context(), c.Params("id"), payments.ConfirmInput{
		Reference:      in.Reference,
		Bank:           in.Bank,
		Identification: in.Identification,
		Phone:          in.Phone,
		ConfirmedBy:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponse(payment))
}

// Apply godoc
// @Summary      Aplicar pago a deudas (admin)
// @Description  Distribuye el saldo contra destinos explícitos o las deudas más antiguas. Reenvíos idénticos no re-aplican.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pago fuente"
// @Param        body  body  dto.ApplyPaymentRequest  true  "Destinos"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/apply [post]
func (h *PaymentHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Targets) == 0 && !in.ApplyToOldest {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "targets o apply_to_oldest son requeridos"})
	}
	payment, err := h.apply.Apply(c.Context(), c.Params("id"), dto.ToTargets(in.Targets), in.ApplyToOldest)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponse(payment))
}

// Balance godoc
// @Summary      Saldo prepago de una casa
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        houseId  path  string  true  "ID de la casa"
// @Success      200      {object}  dto.PrepaidBalanceResponse
// @Router       /api/payments/balance/house/{houseId} [get]
func (h *PaymentHandler) Balance(c *fiber.Ctx) error {
	houseID := c.Params("houseId")
	bal, err := h.balance.ByHouse(c.Context(), houseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PrepaidBalanceResponse{
		HouseID: houseID,
		Prepaid: bal.Prepaid,
		Used:    bal.Used,
		Balance: bal.Balance,
	})
}

// Receipt godoc
// @Summary      Recibo PDF del pago
// @Tags         payments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del pago"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	payment, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	house, err := h.houses.GetByID(payment.HouseID)
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := h.receipt.GenerateReceipt(c.Context(), payment, house)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo-`+payment.ID[:8]+`.pdf"`)
	return c.Send(pdf)
}
