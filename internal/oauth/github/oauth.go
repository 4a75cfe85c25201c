// Package github implementa el flujo OAuth 2.0 contra GitHub.
// GitHub no emite ID tokens: el perfil se obtiene de la API REST con el
// access token.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoints permite apuntar a un servidor fake en tests.
type Endpoints struct {
	Auth   string
	Token  string
	User   string
	Emails string
}

var DefaultEndpoints = Endpoints{
	Auth:   "https://github.com/login/oauth/authorize",
	Token:  "https://github.com/login/oauth/access_token",
	User:   "https://api.github.com/user",
	Emails: "https://api.github.com/user/emails",
}

// ErrNoEmail indica que la cuenta no expone ningún email.
var ErrNoEmail = errors.New("github: no email found")

// OAuth es el cliente OAuth2 de GitHub. Seguro para uso concurrente tras New.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// FetchPrivateEmail consulta /user/emails cuando /user no trae email.
	FetchPrivateEmail bool
	Endpoints         Endpoints

	http *http.Client
}

// New arma el cliente con los endpoints públicos de GitHub.
func New(clientID, clientSecret, redirectURL string, scopes []string) *OAuth {
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	return &OAuth{
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		RedirectURL:       redirectURL,
		Scopes:            scopes,
		FetchPrivateEmail: true,
		Endpoints:         DefaultEndpoints,
		http:              &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient reemplaza el http.Client (tests).
func (g *OAuth) WithHTTPClient(c *http.Client) *OAuth {
	g.http = c
	return g
}

// AuthURL arma la URL de autorización con el state dado.
func (g *OAuth) AuthURL(state string) string {
	u, _ := url.Parse(g.Endpoints.Auth)
	q := u.Query()
	q.Set("client_id", g.ClientID)
	if g.RedirectURL != "" {
		q.Set("redirect_uri", g.RedirectURL)
	}
	q.Set("scope", strings.Join(g.Scopes, " "))
	q.Set("state", state)
	q.Set("allow_signup", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenResponse es la respuesta de /login/oauth/access_token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// ExchangeCode canjea el authorization code por un access token.
func (g *OAuth) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("code", code)
	if g.RedirectURL != "" {
		form.Set("redirect_uri", g.RedirectURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoints.Token, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("github: decode token: %w", err)
	}
	if tr.Error != "" {
		return nil, fmt.Errorf("github: token endpoint: %s (%s)", tr.Error, tr.ErrorDesc)
	}
	if tr.AccessToken == "" {
		return nil, errors.New("github: empty access_token")
	}
	return &tr, nil
}

// UserInfo es el subconjunto de /user que usa el provisioning.
type UserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Attributes devuelve el perfil como mapa de atributos externos.
func (u *UserInfo) Attributes() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"login":      u.Login,
		"name":       u.Name,
		"email":      u.Email,
		"avatar_url": u.AvatarURL,
		"html_url":   u.HTMLURL,
	}
}

// EmailInfo es un elemento de /user/emails.
type EmailInfo struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *OAuth) getJSON(ctx context.Context, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github: %s: status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetUserInfo obtiene /user con el access token.
func (g *OAuth) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	var info UserInfo
	if err := g.getJSON(ctx, g.Endpoints.User, accessToken, &info); err != nil {
		return nil, fmt.Errorf("github: user: %w", err)
	}
	return &info, nil
}

// GetPrimaryEmail prioriza primary+verified, luego verified, luego cualquiera.
func (g *OAuth) GetPrimaryEmail(ctx context.Context, accessToken string) (*EmailInfo, error) {
	var emails []EmailInfo
	if err := g.getJSON(ctx, g.Endpoints.Emails, accessToken, &emails); err != nil {
		return nil, fmt.Errorf("github: emails: %w", err)
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return &e, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return &e, nil
		}
	}
	if len(emails) > 0 {
		return &emails[0], nil
	}
	return nil, ErrNoEmail
}

// GetUserWithEmail obtiene el perfil y, si el email es privado y
// FetchPrivateEmail está activo, lo completa desde /user/emails. Si no hay
// ningún email devuelve el perfil con Email vacío: decide el caller.
func (g *OAuth) GetUserWithEmail(ctx context.Context, accessToken string) (*UserInfo, error) {
	info, err := g.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if info.Email != "" || !g.FetchPrivateEmail {
		return info, nil
	}

	e, err := g.GetPrimaryEmail(ctx, accessToken)
	switch {
	case errors.Is(err, ErrNoEmail):
		return info, nil
	case err != nil:
		return nil, err
	}
	info.Email = e.Email
	return info, nil
}
