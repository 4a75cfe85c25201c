package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.Driver = "memory"
	cfg.Cache.Kind = "memory"
	cfg.JWT.Secret = "app-test-secret"
	cfg.JWT.Issuer = "blogweb-app-test"
	cfg.OAuth.GitHub.ClientID = ""
	cfg.OAuth.GitHub.ClientSecret = ""
	cfg.DefaultAdmin.Username = "admin"
	cfg.DefaultAdmin.Password = "admin123"
	cfg.DefaultAdmin.Email = "admin@example.com"
	cfg.Flags.Seed = true
	cfg.Flags.Migrate = false
	require.NoError(t, cfg.Validate())
	return cfg
}

func serve(t *testing.T, a *App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Server.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return "http://" + ln.Addr().String()
}

func loginToken(t *testing.T, base string) string {
	t.Helper()
	res, err := http.Post(base+"/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body struct {
		JWT    string `json:"jwt"`
		Status bool   `json:"status"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Status)
	require.NotEmpty(t, body.JWT)
	return body.JWT
}

func TestBuild_MemoryEndToEnd(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.Nil(t, a.Stores.PG)

	base := serve(t, a)

	res, err := http.Get(base + "/readyz")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	tok := loginToken(t, base)
	req, err := http.NewRequest(http.MethodGet, base+"/api/roles", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var roles []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	require.ElementsMatch(t, []string{"USER", "ADMIN"}, names)

	// sin GitHub configurado el flujo OAuth2 responde 503
	res, err = http.Get(base + "/oauth2/authorization/github")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestBuild_RedisRateLimitsLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Cache.Kind = "redis"
	cfg.Cache.Redis.Addr = mr.Addr()
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 2
	cfg.Rate.Login.Window = "1m"

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	base := serve(t, a)

	loginToken(t, base)
	loginToken(t, base)
	res, err := http.Post(base+"/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	require.NotEmpty(t, mr.Keys())
}

func TestBuild_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Kind = "redis"
	cfg.Cache.Redis.Addr = "127.0.0.1:1"

	a, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.Nil(t, a)
}

func TestBuild_InvalidJWTConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWT.Secret = ""
	var cfgErr *config.ConfigurationError
	_, err := Build(context.Background(), cfg)
	require.ErrorAs(t, err, &cfgErr)
}
