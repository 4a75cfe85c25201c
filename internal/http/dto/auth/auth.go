// Package auth contiene los DTOs de login y OAuth2.
package auth

// LoginRequest body de POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse respuesta exitosa de POST /auth/login.
type LoginResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	JWT      string `json:"jwt"`
	Status   bool   `json:"status"`
}

// OAuthLoginResponse respuesta del callback OAuth2. Token lleva "Bearer ".
type OAuthLoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// CurrentUserResponse GET /oauth2/user.
type CurrentUserResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
	AuthType    string   `json:"authType"`
}

// TokenResponse GET /oauth2/generate-jwt.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}
