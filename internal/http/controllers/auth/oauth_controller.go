package auth

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/auth"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// AuthorizationPath es donde arranca el flujo OAuth2 con GitHub.
const AuthorizationPath = "/oauth2/authorization/github"

// OAuthController maneja el login con GitHub.
type OAuthController struct {
	service svc.OAuthService
}

func NewOAuthController(service svc.OAuthService) *OAuthController {
	return &OAuthController{service: service}
}

// LoginOAuth maneja GET /auth/login-oauth
func (c *OAuthController) LoginOAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, AuthorizationPath, http.StatusFound)
}

// Authorize maneja GET /oauth2/authorization/github
func (c *OAuthController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OAuthController.Authorize"))

	url, err := c.service.Start(ctx)
	if err != nil {
		log.Error("oauth2 start failed", logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback maneja GET /login/oauth2/code/github
//
// Errores del request (state, code) son 400; cualquier fallo posterior al
// intercambio es 500 con el cuerpo fijo de fallo OAuth2.
func (c *OAuthController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OAuthController.Callback"),
		logger.Provider("github"))

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		log.Info("provider denied authorization", logger.String("oauth_error", e))
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("GitHub rechazó la autorización: "+e))
		return
	}

	resp, err := c.service.Callback(ctx, q.Get("state"), q.Get("code"))
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrInvalidState),
			errors.Is(err, svc.ErrMissingCode),
			errors.Is(err, svc.ErrOAuthNotConfigured):
			log.Warn("oauth2 callback rejected", logger.Err(err))
			httperrors.WriteError(w, mapError(err))
		default:
			log.Error("oauth2 login failed", logger.Err(err))
			httperrors.WriteOAuthFailure(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
