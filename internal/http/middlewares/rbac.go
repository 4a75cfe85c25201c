package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/http/errors"
)

// Predicate decide si el principal puede seguir.
type Predicate func(p *authz.Principal) bool

// Require es el gate genérico: 401 si no hay principal en el contexto,
// 403 si el predicado falla.
func Require(pred Predicate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			if pred != nil && !pred(p) {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated sólo exige principal.
func RequireAuthenticated() Middleware { return Require(nil) }

// RequireAuthority exige al menos una de las authorities (ej: "DELETE").
func RequireAuthority(authorities ...string) Middleware {
	return Require(func(p *authz.Principal) bool {
		return p.Authorities.HasAny(authorities...)
	})
}

// RequireRole exige un rol; acepta "ADMIN" o "ROLE_ADMIN".
func RequireRole(role string) Middleware {
	return Require(func(p *authz.Principal) bool { return p.HasRole(role) })
}
