package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrDataInconsistency: una proyección derivada no pudo resolver una referencia del catálogo.
	ErrDataInconsistency = errors.New("datos inconsistentes")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrAlreadyResolved   = errors.New("la solicitud ya fue resuelta")
)
