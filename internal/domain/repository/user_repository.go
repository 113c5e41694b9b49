package repository

import "github.com/jhoicas/Aguaflow-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Count() (int, error)
	// List usuarios paginados con búsqueda opcional por nombre o email.
	List(search string, limit, offset int) ([]*entity.User, int, error)
	UpdateRole(id, role string) error
	Delete(id string) error
}
