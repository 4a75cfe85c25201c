package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar para errores de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New arma una entrada del catálogo.
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// WithDetail devuelve una COPIA con detalle (no muta el catálogo).
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// ---- catálogo ----

var (
	ErrBadRequest       = New(http.StatusBadRequest, "BAD_REQUEST", "La solicitud es inválida.")
	ErrInvalidJSON      = New(http.StatusBadRequest, "INVALID_JSON", "El cuerpo de la solicitud no es un JSON válido.")
	ErrMissingFields    = New(http.StatusBadRequest, "MISSING_FIELDS", "Faltan campos requeridos.")
	ErrInvalidParameter = New(http.StatusBadRequest, "INVALID_PARAMETER", "Parámetro inválido.")

	ErrUnauthorized       = New(http.StatusUnauthorized, "UNAUTHORIZED", "Se requiere autenticación.")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Usuario o contraseña inválidos.")
	ErrForbidden          = New(http.StatusForbidden, "FORBIDDEN", "Acceso denegado. No tienes los permisos necesarios.")

	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Recurso no encontrado.")
	ErrRouteNotFound    = New(http.StatusNotFound, "ROUTE_NOT_FOUND", "La ruta solicitada no existe.")
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Método no permitido.")
	ErrConflict         = New(http.StatusConflict, "CONFLICT", "El recurso ya existe o está en conflicto.")

	ErrRateLimitExceeded   = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Demasiadas solicitudes. Intenta más tarde.")
	ErrInternalServerError = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Ocurrió un error interno inesperado.")
	ErrServiceUnavailable  = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Servicio no disponible.")
)
