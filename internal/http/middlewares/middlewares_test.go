package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/rate"
	"github.com/prometheus/client_golang/prometheus/testutil"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, ttl time.Duration) *jwt.Codec {
	t.Helper()
	c, err := jwt.NewCodec("middleware-test-secret", "blogweb-test", ttl)
	require.NoError(t, err)
	return c
}

// echoPrincipal responde 200 con el principal visto por el handler.
func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())
	out := map[string]any{"authenticated": p != nil}
	if p != nil {
		out["username"] = p.Username
		out["authorities"] = p.Authorities.Sorted()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func TestChain_Order(t *testing.T) {
	var trail []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := ChainFunc(func(http.ResponseWriter, *http.Request) { trail = append(trail, "h") }, mk("a"), mk("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "h"}, trail)
}

func TestAuthentication_PassThrough(t *testing.T) {
	h := Chain(http.HandlerFunc(echoPrincipal), WithAuthentication(newCodec(t, time.Hour), nil))

	for name, header := range map[string]string{
		"no header":  "",
		"basic":      "Basic YWxpY2U6c2VjcmV0",
		"lower case": "bearer abc",
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
		})
	}
}

func TestAuthentication_ValidToken(t *testing.T) {
	c := newCodec(t, time.Hour)
	tok, err := c.Issue("alice", []string{"ROLE_USER", "READ"})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	Chain(http.HandlerFunc(echoPrincipal), WithAuthentication(c, nil)).ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"authenticated":true,"username":"alice","authorities":["READ","ROLE_USER"]}`, rec.Body.String())
}

func TestAuthentication_InvalidTokenStopsChain(t *testing.T) {
	m := metrics.New()
	called := false
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }),
		WithAuthentication(newCodec(t, time.Hour), m))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Token inválido o expirado","status":401}`, rec.Body.String())
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokenRejections))
}

func TestAuthentication_ExpiredToken(t *testing.T) {
	c := newCodec(t, time.Millisecond)
	tok, err := c.Issue("alice", []string{"READ"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	Chain(http.HandlerFunc(echoPrincipal), WithAuthentication(c, nil)).ServeHTTP(rec, r)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	serve := func(mw Middleware, p *authz.Principal) int {
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		if p != nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		rec := httptest.NewRecorder()
		Chain(ok, mw).ServeHTTP(rec, r)
		return rec.Code
	}

	reader := authz.NewPrincipal("reader", []string{"READ"})
	admin := authz.NewPrincipal("root", []string{"ROLE_ADMIN", "DELETE"})

	require.Equal(t, http.StatusUnauthorized, serve(RequireAuthority("DELETE"), nil))
	require.Equal(t, http.StatusForbidden, serve(RequireAuthority("DELETE"), reader))
	require.Equal(t, http.StatusNoContent, serve(RequireAuthority("DELETE"), admin))
	require.Equal(t, http.StatusNoContent, serve(RequireAuthenticated(), reader))
	require.Equal(t, http.StatusForbidden, serve(RequireRole("ADMIN"), reader))
	require.Equal(t, http.StatusNoContent, serve(RequireRole("ROLE_ADMIN"), admin))
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { seen = GetRequestID(r.Context()) }), WithRequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, "abc-123", seen)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Chain(http.HandlerFunc(echoPrincipal), WithSecurityHeaders(true)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := Chain(http.HandlerFunc(echoPrincipal), WithRateLimit(RateLimitConfig{
		Limiter: rate.NewRedisLimiter(client, "rl:test:", 2, time.Minute),
	}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{200, 200, 429}, codes)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, context.DeadlineExceeded
}

func TestRateLimit_FailOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	Chain(http.HandlerFunc(echoPrincipal), WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_Local(t *testing.T) {
	h := Chain(http.HandlerFunc(echoPrincipal), WithLocalRateLimit(1, time.Minute, nil))
	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestWithPrincipal_SetsAuditActor(t *testing.T) {
	ctx := WithPrincipal(context.Background(), authz.NewPrincipal("alice", []string{"READ"}))
	require.Equal(t, "alice", audit.Actor(ctx))
	require.Equal(t, "alice", GetPrincipal(ctx).Username)
	require.Equal(t, audit.SystemActor, audit.Actor(WithPrincipal(context.Background(), nil)))
}
