package auth

import (
	"net/http"

	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	mw "github.com/dropDatabas3/blogweb/internal/http/middlewares"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/auth"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// TokenController expone el principal autenticado.
type TokenController struct {
	service svc.TokenService
}

func NewTokenController(service svc.TokenService) *TokenController {
	return &TokenController{service: service}
}

// CurrentUser maneja GET /oauth2/user
func (c *TokenController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	p := mw.GetPrincipal(r.Context())
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, c.service.CurrentUser(p))
}

// GenerateJWT maneja GET /oauth2/generate-jwt
func (c *TokenController) GenerateJWT(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	resp, err := c.service.Reissue(ctx, p)
	if err != nil {
		logger.From(ctx).Error("token reissue failed", logger.Layer("controller"),
			logger.Op("TokenController.GenerateJWT"), logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
