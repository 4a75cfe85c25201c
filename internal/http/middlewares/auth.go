package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

const bearerPrefix = "Bearer "

// TokenValidator valida un access token. *jwt.Codec lo implementa.
type TokenValidator interface {
	Validate(token string) (*jwt.Decoded, error)
}

// WithAuthentication es el filtro Bearer. Un solo paso por request:
//   - sin Authorization o no Bearer: sigue sin principal
//   - token inválido o vencido: 401 fijo y corta la cadena
//   - token válido: principal (sub + authorities) en el contexto
//
// No guarda estado entre requests; v sólo se lee.
func WithAuthentication(v TokenValidator, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			decoded, err := v.Validate(strings.TrimSpace(h[len(bearerPrefix):]))
			if err != nil {
				logger.From(ctx).Debug("bearer token rejected",
					logger.Component("auth.filter"), logger.Err(err))
				m.TokenRejected()
				errors.WriteInvalidToken(w)
				return
			}

			p := authz.FromToken(decoded)
			ctx = WithPrincipal(ctx, p)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Username(p.Username)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
