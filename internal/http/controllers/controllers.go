// Package controllers es el composition root de los controllers HTTP.
//
//	deps ─► services.New ─► controllers.New ─► router.New
package controllers

import (
	"github.com/dropDatabas3/blogweb/internal/http/controllers/admin"
	"github.com/dropDatabas3/blogweb/internal/http/controllers/auth"
	"github.com/dropDatabas3/blogweb/internal/http/controllers/blog"
	"github.com/dropDatabas3/blogweb/internal/http/controllers/health"
	"github.com/dropDatabas3/blogweb/internal/http/services"
)

// Controllers agrupa los controllers de todos los dominios.
type Controllers struct {
	Auth   *auth.Controllers
	Admin  *admin.Controllers
	Blog   *blog.Controllers
	Health *health.HealthController
}

func New(s *services.Services) *Controllers {
	return &Controllers{
		Auth:   auth.NewControllers(s.Auth),
		Admin:  admin.NewControllers(s.Admin),
		Blog:   blog.NewControllers(s.Blog),
		Health: health.NewHealthController(s.Health),
	}
}
