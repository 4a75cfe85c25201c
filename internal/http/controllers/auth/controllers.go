// Package auth contiene los controllers de login, OAuth2 y token.
package auth

import svc "github.com/dropDatabas3/blogweb/internal/http/services/auth"

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Login *LoginController
	OAuth *OAuthController
	Token *TokenController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Login: NewLoginController(s.Login),
		OAuth: NewOAuthController(s.OAuth),
		Token: NewTokenController(s.Token),
	}
}
