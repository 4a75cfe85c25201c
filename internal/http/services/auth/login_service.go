package auth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

const loginMessage = "User logged in successfully"

// Authenticated es el resultado de un login exitoso. Sin credenciales.
type Authenticated struct {
	User        *repository.User
	Authorities []string
}

type loginService struct {
	deps   Deps
	loader *PrincipalLoader
}

func NewLoginService(d Deps, loader *PrincipalLoader) LoginService {
	if loader == nil {
		loader = NewPrincipalLoader(d.DAL)
	}
	return &loginService{deps: d, loader: loader}
}

func (s *loginService) Authenticate(ctx context.Context, username, password string) (*Authenticated, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Authenticate"),
	)

	u, err := s.loader.Load(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("user not found", logger.Username(username))
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	log = log.With(logger.UserID(u.ID))

	// chequeos previos a la contraseña
	switch {
	case !u.AccountNotLocked:
		log.Info("account locked")
		return nil, ErrAccountLocked
	case !u.Enabled:
		log.Info("account disabled")
		return nil, ErrAccountDisabled
	case !u.AccountNotExpired:
		log.Info("account expired")
		return nil, ErrAccountExpired
	}

	if !s.deps.Hasher.Verify(password, u.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrBadCredentials
	}

	if !u.CredentialNotExpired {
		log.Info("credentials expired")
		return nil, ErrCredentialsExpired
	}

	return &Authenticated{User: u, Authorities: authz.Resolve(u)}, nil
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		s.deps.Metrics.Login(metrics.ResultFailure)
		return nil, ErrBadCredentials
	}

	auth, err := s.Authenticate(ctx, username, in.Password)
	if err != nil {
		s.deps.Metrics.Login(metrics.ResultFailure)
		return nil, err
	}

	token, err := s.deps.Codec.Issue(auth.User.Username, auth.Authorities)
	if err != nil {
		s.deps.Metrics.Login(metrics.ResultFailure)
		return nil, err
	}
	s.deps.Metrics.Login(metrics.ResultSuccess)

	logger.From(ctx).Info("user logged in",
		logger.Layer("service"), logger.Component("auth.login"),
		logger.Username(auth.User.Username))

	return &dto.LoginResponse{
		Username: auth.User.Username,
		Message:  loginMessage,
		JWT:      token,
		Status:   true,
	}, nil
}
