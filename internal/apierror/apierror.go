// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Success is always false; it stays explicit because the clients branch on it.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Message: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Success: false, Message: "Error de validación", Fields: fields}
}

// Sentinel errors for the documented failure modes. Services return these
// (possibly wrapped with %w) instead of raw strings so that handlers can map
// them to specific status codes.
var (
	// ErrInvalidInput — semantically invalid data that passed structural
	// validation (future dates, non-positive amounts...).
	ErrInvalidInput = errors.New("Datos inválidos")

	// ErrInvalidCredentials — login failed; deliberately does not say
	// whether the user exists.
	ErrInvalidCredentials = errors.New("Usuario o contraseña incorrectos")

	// ErrNoActiveFarm — the user has not selected a finca to scope the request.
	ErrNoActiveFarm = errors.New("No hay finca activa seleccionada")

	// ErrInsufficientFunds — a retiro would drive the caja below zero.
	ErrInsufficientFunds = errors.New("No hay suficiente dinero en caja para este retiro")

	// ErrNotFound — the referenced entity is absent or not owned by the caller.
	ErrNotFound = errors.New("Recurso no encontrado")

	// ErrForbidden — the caller lacks rights over the resource.
	ErrForbidden = errors.New("No tienes permisos sobre este recurso")

	// ErrConflict — a concurrent liquidación holds the lease for this finca.
	ErrConflict = errors.New("Ya hay una liquidación en proceso para esta finca")
)
