package auth

import (
	"errors"
	"fmt"
)

// Errores de login (todos 401).
var (
	ErrBadCredentials     = errors.New("bad credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrAccountExpired     = errors.New("account expired")
	ErrAccountLocked      = errors.New("account locked")
	ErrCredentialsExpired = errors.New("credentials expired")
)

// Errores del flujo OAuth2.
var (
	ErrOAuthNotConfigured = errors.New("oauth2 provider not configured")
	ErrInvalidState       = errors.New("invalid or expired oauth2 state")
	ErrMissingCode        = errors.New("missing authorization code")
)

// MissingEmailMessage es el motivo del fallo cuando el proveedor no da email.
const MissingEmailMessage = "No se pudo obtener el email de GitHub. Asegúrate de que sea público en tu perfil."

// ProvisioningError es un fallo fatal del provisionamiento OAuth2 (500).
type ProvisioningError struct {
	Msg string
	Err error
}

func (e *ProvisioningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// IsAuthenticationError reporta si err es alguno de los errores 401 de login.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrAccountDisabled) ||
		errors.Is(err, ErrAccountExpired) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrCredentialsExpired)
}
