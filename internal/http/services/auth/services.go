// Package auth implementa los casos de uso de autenticación: login por
// usuario/contraseña, provisionamiento de identidades GitHub y el flujo
// OAuth2 completo hasta la emisión del JWT.
package auth

import (
	"context"
	"time"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/cache"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/oauth/github"
	"github.com/dropDatabas3/blogweb/internal/security/password"
)

// LoginService autentica credenciales locales y emite el token.
type LoginService interface {
	// Authenticate verifica password y flags de estado. Devuelve el usuario
	// y sus authorities resueltas.
	Authenticate(ctx context.Context, username, password string) (*Authenticated, error)
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
}

// ProvisioningService mapea una identidad externa a un usuario local.
type ProvisioningService interface {
	Provision(ctx context.Context, id Identity) (*repository.User, error)
}

// OAuthService orquesta el login con GitHub.
type OAuthService interface {
	// Start genera y guarda el state y devuelve la URL de autorización.
	Start(ctx context.Context) (string, error)
	// Callback consume el state, intercambia el code y completa el login.
	Callback(ctx context.Context, state, code string) (*dto.OAuthLoginResponse, error)
	// Complete provisiona la identidad ya obtenida y emite el token.
	Complete(ctx context.Context, id Identity) (*dto.OAuthLoginResponse, error)
}

// TokenService opera sobre el principal ya autenticado.
type TokenService interface {
	CurrentUser(p *authz.Principal) dto.CurrentUserResponse
	Reissue(ctx context.Context, p *authz.Principal) (*dto.TokenResponse, error)
}

// GitHubClient es lo que el flujo OAuth2 necesita del proveedor.
type GitHubClient interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*github.TokenResponse, error)
	GetUserWithEmail(ctx context.Context, accessToken string) (*github.UserInfo, error)
}

// AdminIdentity es el usuario/email que se promueve a AdminRole.
type AdminIdentity struct {
	Username string
	Email    string
}

// Deps agrupa las dependencias de todos los services de auth.
type Deps struct {
	DAL      repository.DataAccess
	Codec    *jwt.Codec
	Hasher   password.Hasher
	Cache    cache.Client
	GitHub   GitHubClient // nil = OAuth2 deshabilitado
	StateTTL time.Duration
	Admin    AdminIdentity
	// Nombres de rol sin prefijo.
	AdminRole   string
	DefaultRole string
	Metrics     *metrics.Metrics
}

// Services agrupa los services de auth.
type Services struct {
	Login        LoginService
	Provisioning ProvisioningService
	OAuth        OAuthService
	Token        TokenService
}

// NewServices arma los services. El PrincipalLoader sólo lo usa el login.
func NewServices(d Deps) Services {
	if d.Hasher.Cost == 0 {
		d.Hasher = password.Default
	}
	if d.StateTTL <= 0 {
		d.StateTTL = 10 * time.Minute
	}
	if d.AdminRole == "" {
		d.AdminRole = "ADMIN"
	}
	if d.DefaultRole == "" {
		d.DefaultRole = "USER"
	}
	loader := NewPrincipalLoader(d.DAL)
	prov := NewProvisioningService(d)
	return Services{
		Login:        NewLoginService(d, loader),
		Provisioning: prov,
		OAuth:        NewOAuthService(d, prov),
		Token:        NewTokenService(d.Codec),
	}
}
