package auth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/cache"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/google/uuid"
)

const (
	providerGitHub   = "github"
	stateKeyPrefix   = "oauth:state:"
	bearerTokenValue = "Bearer "
)

type oauthService struct {
	deps Deps
	prov ProvisioningService
}

func NewOAuthService(d Deps, prov ProvisioningService) OAuthService {
	if prov == nil {
		prov = NewProvisioningService(d)
	}
	return &oauthService{deps: d, prov: prov}
}

func (s *oauthService) Start(ctx context.Context) (string, error) {
	if s.deps.GitHub == nil || s.deps.Cache == nil {
		return "", ErrOAuthNotConfigured
	}
	state := uuid.NewString()
	if err := s.deps.Cache.Set(ctx, stateKeyPrefix+state, providerGitHub, s.deps.StateTTL); err != nil {
		return "", err
	}
	return s.deps.GitHub.AuthURL(state), nil
}

func (s *oauthService) Callback(ctx context.Context, state, code string) (*dto.OAuthLoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.oauth"),
		logger.Op("Callback"),
		logger.Provider(providerGitHub),
	)
	if s.deps.GitHub == nil || s.deps.Cache == nil {
		return nil, ErrOAuthNotConfigured
	}

	state = strings.TrimSpace(state)
	if state == "" {
		return nil, ErrInvalidState
	}
	// uso único: Take borra el state aunque el resto falle
	if _, err := s.deps.Cache.Take(ctx, stateKeyPrefix+state); err != nil {
		if cache.IsNotFound(err) {
			log.Debug("unknown or expired state")
			return nil, ErrInvalidState
		}
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}

	tok, err := s.deps.GitHub.ExchangeCode(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		s.deps.Metrics.Provisioning(metrics.ResultFailure)
		return nil, err
	}
	info, err := s.deps.GitHub.GetUserWithEmail(ctx, tok.AccessToken)
	if err != nil {
		log.Warn("user info failed", logger.Err(err))
		s.deps.Metrics.Provisioning(metrics.ResultFailure)
		return nil, err
	}
	return s.Complete(ctx, IdentityFromAttributes(providerGitHub, info.Attributes()))
}

// Complete provisiona, vuelve a cargar al usuario por username para tener
// roles y permisos limpios y emite el token.
func (s *oauthService) Complete(ctx context.Context, id Identity) (*dto.OAuthLoginResponse, error) {
	resp, err := s.complete(ctx, id)
	if err != nil {
		s.deps.Metrics.Provisioning(metrics.ResultFailure)
		return nil, err
	}
	s.deps.Metrics.Provisioning(metrics.ResultSuccess)
	return resp, nil
}

func (s *oauthService) complete(ctx context.Context, id Identity) (*dto.OAuthLoginResponse, error) {
	u, err := s.prov.Provision(ctx, id)
	if err != nil {
		return nil, err
	}
	// lectura directa, sin singleflight: una carga en vuelo iniciada antes
	// del commit de Provision no vería el rol recién asignado
	fresh, err := s.deps.DAL.Users().FindByUsername(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	token, err := s.deps.Codec.Issue(fresh.Username, authz.Resolve(fresh))
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("oauth2 login completed",
		logger.Layer("service"), logger.Component("auth.oauth"),
		logger.Provider(id.Provider), logger.Username(fresh.Username))

	return &dto.OAuthLoginResponse{
		Token:    bearerTokenValue + token,
		Email:    fresh.Email,
		Username: fresh.Username,
	}, nil
}
