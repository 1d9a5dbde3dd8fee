package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrValidation       = errors.New("validación fallida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrMissingToken     = fmt.Errorf("token de autenticación ausente: %w", ErrUnauthorized)
	ErrNotConfirmed     = errors.New("operación destructiva no confirmada")
	ErrSubmitInProgress = errors.New("ya hay un envío en curso para este formulario")
	ErrNoActiveForm     = errors.New("el formulario no está en modo creación ni edición")
	ErrUpstream         = errors.New("error del API remoto")
)

// ValidationError lista ordenada de motivos legibles por los que un borrador no se envía.
// Nunca llega a la red: se reporta en línea.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validación: " + strings.Join(e.Reasons, "; ")
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError construye el error con al menos un motivo.
func NewValidationError(reasons ...string) *ValidationError {
	return &ValidationError{Reasons: reasons}
}

// APIError error de red o de servidor devuelto por el API remoto.
// Message es el primer mensaje legible que envió el servidor (puede ser vacío).
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("API remoto (%d): %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("API remoto (%d): %v", e.Status, e.Err)
	default:
		return fmt.Sprintf("API remoto: HTTP %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstream
}

// OperationError fallo de una operación de formulario ya enviada al API.
// Message es lo que se muestra al usuario: el mensaje del servidor o el genérico por entidad.
type OperationError struct {
	Entity  string // department | role | user
	Op      string // create | update | delete
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }

func (e *OperationError) Unwrap() error { return e.Err }

// FallbackMessage mensaje genérico cuando el servidor no aporta ninguno.
func FallbackMessage(entity, op string) string {
	return fmt.Sprintf("Failed to %s %s.", op, entity)
}

// NewOperationError envuelve err con el primer mensaje disponible del servidor
// o el genérico "Failed to <op> <entity>.".
func NewOperationError(entity, op string, err error) *OperationError {
	msg := ""
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if msg == "" {
		msg = FallbackMessage(entity, op)
	}
	return &OperationError{Entity: entity, Op: op, Message: msg, Err: err}
}
