package auth

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/authz"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

type tokenService struct {
	codec *jwt.Codec
}

func NewTokenService(codec *jwt.Codec) TokenService {
	return &tokenService{codec: codec}
}

func (s *tokenService) CurrentUser(p *authz.Principal) dto.CurrentUserResponse {
	return dto.CurrentUserResponse{
		Username:    p.Username,
		Authorities: p.Authorities.Sorted(),
		AuthType:    "JWT",
	}
}

// Reissue firma un token nuevo con las authorities del token actual: no
// recarga roles desde storage.
func (s *tokenService) Reissue(ctx context.Context, p *authz.Principal) (*dto.TokenResponse, error) {
	token, err := s.codec.Issue(p.Username, p.Authorities.Sorted())
	if err != nil {
		logger.From(ctx).Error("reissue failed", logger.Component("auth.token"), logger.Err(err))
		return nil, err
	}
	return &dto.TokenResponse{Token: token, TokenType: "Bearer"}, nil
}
