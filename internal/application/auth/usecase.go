// Package auth registro y login de usuarios con emisión de JWT.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Aguaflow-api/internal/domain"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
	"github.com/jhoicas/Aguaflow-api/pkg/jwt"
)

// UseCase registro y autenticación.
type UseCase struct {
	users      repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	jwtExpMins int
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpMins int) *UseCase {
	return &UseCase{users: users, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer, jwtExpMins: jwtExpMins}
}

// RegisterInput alta de usuario.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register crea el usuario con la contraseña hasheada (bcrypt).
// El primer usuario registrado recibe rol admin; el resto, rol user.
func (uc *UseCase) Register(_ context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || email == "" || len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}

	if _, err := uc.users.GetByEmail(email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	count, err := uc.users.Count()
	if err != nil {
		return nil, err
	}
	role := entity.RoleUser
	if count == 0 {
		role = entity.RoleAdmin
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// LoginResult token emitido junto al usuario autenticado.
type LoginResult struct {
	Token string
	User  *entity.User
}

// Login verifica credenciales y emite el JWT con el rol embebido.
func (uc *UseCase) Login(_ context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Email, user.Role, uc.jwtIssuer, uc.jwtExpMins)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
