package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidOperation = errors.New("operación no permitida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrIntegrityFault   = errors.New("falla de integridad en la configuración del almacén")
)

// NotFound construye un ErrNotFound con el tipo e id del recurso.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// InvalidOperation construye un ErrInvalidOperation con el motivo.
func InvalidOperation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidOperation)
}

// IntegrityFault construye un ErrIntegrityFault con el detalle.
func IntegrityFault(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrIntegrityFault)
}

// Conflict envuelve un error ocurrido en la fase de escritura.
// El resultado cumple errors.Is tanto con ErrConflict como con la causa original.
// Las fallas de integridad conservan su identidad y nunca se degradan a conflicto.
func Conflict(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrConflict) || errors.Is(cause, ErrIntegrityFault) {
		return cause
	}
	return fmt.Errorf("%s: %w: %w", op, ErrConflict, cause)
}
