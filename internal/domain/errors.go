package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrNoTanks             = errors.New("no hay tanques registrados")
	ErrInsufficientLiters  = errors.New("no hay litros suficientes en los tanques")
	ErrInsufficientPrepaid = errors.New("no hay suficientes botellones prepagados para esta entrega")
	ErrTankActive          = errors.New("no puedes eliminar un tanque activo; activa otro primero")
	ErrAlreadyConfirmed    = errors.New("el pago ya está confirmado")
	ErrNotConfirmed        = errors.New("el pago debe estar confirmado para aplicarse")
	ErrNothingToApply      = errors.New("el pago no tiene monto disponible para aplicar")
	ErrIncompleteBankData  = errors.New("datos bancarios incompletos")
)
