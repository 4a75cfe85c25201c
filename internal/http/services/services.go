// Package services es el composition root de los services HTTP.
//
//	deps := services.Deps{DAL: dal, Codec: codec, Cache: c, ...}
//	svcs := services.New(deps)
//	// svcs.Auth.Login, svcs.Admin.Roles, svcs.Blog.Posts, svcs.Health
package services

import (
	"time"

	"github.com/dropDatabas3/blogweb/internal/cache"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/http/services/admin"
	"github.com/dropDatabas3/blogweb/internal/http/services/auth"
	"github.com/dropDatabas3/blogweb/internal/http/services/blog"
	"github.com/dropDatabas3/blogweb/internal/http/services/health"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/security/password"
)

// Deps contiene todas las dependencias externas de los services.
type Deps struct {
	// ─── Infraestructura ───
	DAL     repository.DataAccess
	Codec   *jwt.Codec
	Hasher  password.Hasher
	Cache   cache.Client
	GitHub  auth.GitHubClient // nil = OAuth2 deshabilitado
	Metrics *metrics.Metrics

	// ─── Configuración ───
	StateTTL    time.Duration
	Admin       auth.AdminIdentity
	AdminRole   string
	DefaultRole string

	// ─── Health ───
	HealthChecks map[string]health.Checker
}

type Services struct {
	Auth   auth.Services
	Admin  admin.Services
	Blog   blog.Services
	Health health.HealthService
}

// New es el único lugar donde se instancian los services.
func New(d Deps) *Services {
	return &Services{
		Auth: auth.NewServices(auth.Deps{
			DAL:         d.DAL,
			Codec:       d.Codec,
			Hasher:      d.Hasher,
			Cache:       d.Cache,
			GitHub:      d.GitHub,
			StateTTL:    d.StateTTL,
			Admin:       d.Admin,
			AdminRole:   d.AdminRole,
			DefaultRole: d.DefaultRole,
			Metrics:     d.Metrics,
		}),
		Admin:  admin.NewServices(admin.Deps{DAL: d.DAL, Hasher: d.Hasher}),
		Blog:   blog.NewServices(d.DAL),
		Health: health.NewHealthService(health.Deps{Checks: d.HealthChecks}),
	}
}
