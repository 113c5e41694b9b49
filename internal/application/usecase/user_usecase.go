package usecase

import (
	"context"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// List usuarios paginados con búsqueda opcional por nombre o email.
func (uc *UserUseCase) List(_ context.Context, search string, page, perPage int) ([]*entity.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return uc.users.List(search, perPage, (page-1)*perPage)
}

// GetByID devuelve un usuario.
func (uc *UserUseCase) GetByID(_ context.Context, id string) (*entity.User, error) {
	return uc.users.GetByID(id)
}

// ChangeRole cambia el rol de un usuario. Un admin no puede degradarse a sí
// mismo: siempre debe quedar al menos su propia cuenta con acceso.
func (uc *UserUseCase) ChangeRole(_ context.Context, actorID, userID, role string) (*entity.User, error) {
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, domain.ErrInvalidInput
	}
	if actorID == userID && role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.users.GetByID(userID); err != nil {
		return nil, err
	}
	if err := uc.users.UpdateRole(userID, role); err != nil {
		return nil, err
	}
	return uc.users.GetByID(userID)
}

// Delete elimina un usuario. Autoeliminación no permitida.
func (uc *UserUseCase) Delete(_ context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.ErrForbidden
	}
	if _, err := uc.users.GetByID(userID); err != nil {
		return err
	}
	return uc.users.Delete(userID)
}
