package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/auth"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// LoginController maneja POST /auth/login.
type LoginController struct {
	service svc.LoginService
}

func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	resp, err := c.service.Login(ctx, req)
	if err != nil {
		if svc.IsAuthenticationError(err) {
			log.Info("login rejected", logger.Username(req.Username), logger.Err(err))
		} else {
			log.Error("login failed", logger.Err(err))
		}
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func mapError(err error) error {
	var appErr *httperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, svc.ErrAccountDisabled):
		return httperrors.ErrInvalidCredentials.WithDetail("la cuenta está deshabilitada")
	case errors.Is(err, svc.ErrAccountLocked):
		return httperrors.ErrInvalidCredentials.WithDetail("la cuenta está bloqueada")
	case errors.Is(err, svc.ErrAccountExpired):
		return httperrors.ErrInvalidCredentials.WithDetail("la cuenta expiró")
	case errors.Is(err, svc.ErrCredentialsExpired):
		return httperrors.ErrInvalidCredentials.WithDetail("las credenciales expiraron")
	case svc.IsAuthenticationError(err):
		return httperrors.ErrInvalidCredentials
	case errors.Is(err, svc.ErrOAuthNotConfigured):
		return httperrors.ErrServiceUnavailable.WithDetail("login con GitHub no configurado")
	case errors.Is(err, svc.ErrInvalidState):
		return httperrors.ErrBadRequest.WithDetail("state OAuth2 inválido o expirado")
	case errors.Is(err, svc.ErrMissingCode):
		return httperrors.ErrMissingFields.WithDetail("code es requerido")
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
