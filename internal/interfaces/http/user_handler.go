package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aguaflow-api/internal/application/dto"
	"github.com/jhoicas/Aguaflow-api/internal/application/usecase"
)

// UserHandler maneja la administración de usuarios (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Description  Búsqueda opcional por nombre o email, con paginación.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Texto a buscar"
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        per_page  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 20)

	users, total, err := h.uc.List(c.Context(), search, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserListResponse{
		Users: dto.ToUserResponses(users),
		Page: dto.PageResponse{
			Limit:  perPage,
			Offset: (page - 1) * perPage,
			Total:  total,
		},
	})
}

// ChangeRole godoc
// @Summary      Cambiar rol de un usuario
// @Description  Un administrador no puede degradarse a sí mismo.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.ChangeRoleRequest  true  "Nuevo rol"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.ChangeRole(c.Context(), GetUserID(c), c.Params("id"), in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToUserResponse(user))
}

// Delete godoc
// @Summary      Eliminar usuario
// @Description  Un administrador no puede eliminarse a sí mismo.
// @Tags         users
// @Security     Bearer
// @Param        id  path  string  true  "ID del usuario"
// @Success      204  "Sin contenido"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
