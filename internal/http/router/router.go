// Package router arma el árbol de rutas chi y la cadena de middlewares.
//
// Orden global: Recover → RequestID → SecurityHeaders → Metrics → Logging.
// Authentication sólo se monta en los grupos protegidos; las rutas públicas
// ignoran el header Authorization. Por ruta: rate limit (login) y el gate de
// authorities.
package router

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/blogweb/internal/http/controllers"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	mw "github.com/dropDatabas3/blogweb/internal/http/middlewares"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/rate"
	"github.com/go-chi/chi/v5"
)

// Authorities que protegen el CRUD.
const (
	AuthRead   = "READ"
	AuthCreate = "CREATE"
	AuthUpdate = "UPDATE"
	AuthDelete = "DELETE"
)

// Deps contiene lo que el router necesita para armar las cadenas.
type Deps struct {
	Controllers *controllers.Controllers
	Tokens      mw.TokenValidator
	Metrics     *metrics.Metrics

	// LoginLimiter (Redis) tiene prioridad; si es nil y LoginLimit > 0 se
	// usa un limiter en proceso.
	LoginLimiter rate.Limiter
	LoginLimit   int
	LoginWindow  time.Duration

	AdminRole string
	Dev       bool
}

// New devuelve el handler raíz del servicio.
func New(d Deps) http.Handler {
	if d.AdminRole == "" {
		d.AdminRole = "ADMIN"
	}
	c := d.Controllers
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(d.Dev),
		mw.WithMetrics(d.Metrics),
		mw.WithLogging(),
	)
	authn := mw.WithAuthentication(d.Tokens, d.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Públicas ───
	r.Get("/healthz", c.Health.Healthz)
	r.Get("/readyz", c.Health.Readyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.With(loginLimit(d)).Post("/auth/login", c.Auth.Login.Login)
	r.Get("/auth/login-oauth", c.Auth.OAuth.LoginOAuth)
	r.Get("/oauth2/authorization/github", c.Auth.OAuth.Authorize)
	r.Get("/login/oauth2/code/github", c.Auth.OAuth.Callback)

	// ─── Cualquier token válido ───
	r.Group(func(r chi.Router) {
		r.Use(authn, mw.RequireAuthenticated())
		r.Get("/oauth2/user", c.Auth.Token.CurrentUser)
		r.Get("/oauth2/generate-jwt", c.Auth.Token.GenerateJWT)
	})

	// ─── CRUD ───
	r.Route("/api", func(r chi.Router) {
		r.Use(authn)
		r.Route("/authors", func(r chi.Router) {
			a := c.Blog.Authors
			r.With(need(AuthRead)).Get("/", a.List)
			r.With(need(AuthRead)).Get("/{id}", a.Get)
			r.With(need(AuthCreate)).Post("/", a.Create)
			r.With(need(AuthUpdate)).Put("/{id}", a.Update)
			r.With(need(AuthDelete)).Delete("/{id}", a.Delete)
		})
		r.Route("/posts", func(r chi.Router) {
			p := c.Blog.Posts
			r.With(need(AuthRead)).Get("/", p.List)
			r.With(need(AuthRead)).Get("/{id}", p.Get)
			r.With(need(AuthCreate)).Post("/", p.Create)
			r.With(need(AuthUpdate)).Put("/{id}", p.Update)
			r.With(need(AuthDelete)).Delete("/{id}", p.Delete)
		})
		r.Route("/users", func(r chi.Router) {
			u := c.Admin.Users
			// listar usuarios expone roles: se exige UPDATE, no READ
			r.With(need(AuthUpdate)).Get("/", u.List)
			r.With(need(AuthUpdate)).Get("/{id}", u.Get)
			r.With(need(AuthCreate)).Post("/", u.Create)
			r.With(need(AuthUpdate)).Put("/{id}", u.Update)
			r.With(need(AuthDelete)).Delete("/{id}", u.Delete)
		})
		r.Route("/roles", func(r chi.Router) {
			ro := c.Admin.Roles
			r.With(need(AuthRead)).Get("/", ro.List)
			r.With(need(AuthRead)).Get("/{id}", ro.Get)
			r.With(need(AuthCreate)).Post("/", ro.Create)
			r.With(need(AuthUpdate)).Put("/{id}/permissions", ro.ReplacePermissions)
			r.With(need(AuthDelete)).Delete("/{id}", ro.Delete)
		})
		r.Route("/permissions", func(r chi.Router) {
			pe := c.Admin.Permissions
			r.With(need(AuthRead)).Get("/", pe.List)
			r.With(need(AuthRead)).Get("/{id}", pe.Get)
			r.With(mw.RequireRole(d.AdminRole)).Post("/", pe.Create)
			r.With(need(AuthUpdate)).Put("/{id}", pe.Rename)
			r.With(need(AuthDelete)).Delete("/{id}", pe.Delete)
		})
	})

	return r
}

func need(authority string) func(http.Handler) http.Handler {
	return mw.RequireAuthority(authority)
}

func loginLimit(d Deps) func(http.Handler) http.Handler {
	switch {
	case d.LoginLimiter != nil:
		return mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.LoginLimiter, Metrics: d.Metrics})
	case d.LoginLimit > 0:
		window := d.LoginWindow
		if window <= 0 {
			window = time.Minute
		}
		return mw.WithLocalRateLimit(d.LoginLimit, window, d.Metrics)
	default:
		return func(next http.Handler) http.Handler { return next }
	}
}
