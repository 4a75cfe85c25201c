package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dropDatabas3/blogweb/internal/authz"
	"github.com/dropDatabas3/blogweb/internal/cache"
	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/auth"
	"github.com/dropDatabas3/blogweb/internal/jwt"
	"github.com/dropDatabas3/blogweb/internal/metrics"
	"github.com/dropDatabas3/blogweb/internal/oauth/github"
	"github.com/dropDatabas3/blogweb/internal/security/password"
	"github.com/dropDatabas3/blogweb/internal/store/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testHasher = password.Hasher{Cost: bcrypt.MinCost}

type fixture struct {
	store   *memory.Store
	codec   *jwt.Codec
	metrics *metrics.Metrics
	gh      *fakeGitHub
	svc     Services
}

// newFixture siembra READ/CREATE/UPDATE/DELETE, USER{READ}, ADMIN{todos}.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	perms := map[string]repository.Permission{}
	for _, n := range []string{"READ", "CREATE", "UPDATE", "DELETE"} {
		p := repository.Permission{Name: n}
		require.NoError(t, st.Permissions().Create(ctx, &p))
		perms[n] = p
	}
	user := repository.Role{Name: "USER", Permissions: []repository.Permission{perms["READ"]}}
	require.NoError(t, st.Roles().Create(ctx, &user))
	admin := repository.Role{Name: "ADMIN", Permissions: []repository.Permission{
		perms["READ"], perms["CREATE"], perms["UPDATE"], perms["DELETE"],
	}}
	require.NoError(t, st.Roles().Create(ctx, &admin))

	codec, err := jwt.NewCodec("auth-service-test-secret", "blogweb-test", time.Hour)
	require.NoError(t, err)

	f := &fixture{store: st, codec: codec, metrics: metrics.New(), gh: &fakeGitHub{}}
	f.svc = NewServices(Deps{
		DAL:         st,
		Codec:       codec,
		Hasher:      testHasher,
		Cache:       cache.NewMemory("test:", time.Minute),
		GitHub:      f.gh,
		StateTTL:    time.Minute,
		Admin:       AdminIdentity{Username: "boss", Email: "Boss@Example.com"},
		AdminRole:   "ADMIN",
		DefaultRole: "USER",
		Metrics:     f.metrics,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, username, plain string, mutate func(u *repository.User)) *repository.User {
	t.Helper()
	ctx := context.Background()
	role, err := f.store.Roles().FindByName(ctx, "USER")
	require.NoError(t, err)
	hash, err := testHasher.Hash(plain)
	require.NoError(t, err)
	u := &repository.User{
		Username:             username,
		PasswordHash:         hash,
		Enabled:              true,
		AccountNotExpired:    true,
		AccountNotLocked:     true,
		CredentialNotExpired: true,
		Roles:                []repository.Role{*role},
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, f.store.Users().Create(ctx, u))
	return u
}

type fakeGitHub struct {
	user        github.UserInfo
	exchangeErr error
	codes       []string
}

func (g *fakeGitHub) AuthURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + url.QueryEscape(state)
}

func (g *fakeGitHub) ExchangeCode(_ context.Context, code string) (*github.TokenResponse, error) {
	g.codes = append(g.codes, code)
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	return &github.TokenResponse{AccessToken: "gho_test"}, nil
}

func (g *fakeGitHub) GetUserWithEmail(context.Context, string) (*github.UserInfo, error) {
	u := g.user
	return &u, nil
}

// ---- login ----

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "secret123", nil)

	resp, err := f.svc.Login.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "alice", resp.Username)
	require.Equal(t, "User logged in successfully", resp.Message)
	require.True(t, resp.Status)

	d, err := f.codec.Validate(resp.JWT)
	require.NoError(t, err)
	require.Equal(t, "alice", d.Subject)
	require.Equal(t, []string{"READ"}, d.Permissions)
	require.Equal(t, []string{"USER"}, d.Roles)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginTotal.WithLabelValues(metrics.ResultSuccess)))
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "secret123", nil)
	f.addUser(t, "disabled", "pw", func(u *repository.User) { u.Enabled = false })
	f.addUser(t, "locked", "pw", func(u *repository.User) { u.AccountNotLocked = false })
	f.addUser(t, "expired", "pw", func(u *repository.User) { u.AccountNotExpired = false })
	f.addUser(t, "stale", "pw", func(u *repository.User) { u.CredentialNotExpired = false })

	cases := []struct {
		user, pass string
		want       error
	}{
		{"alice", "wrong", ErrBadCredentials},
		{"nobody", "secret123", ErrBadCredentials},
		{"", "secret123", ErrBadCredentials},
		{"disabled", "pw", ErrAccountDisabled},
		{"locked", "pw", ErrAccountLocked},
		{"expired", "pw", ErrAccountExpired},
		{"stale", "pw", ErrCredentialsExpired},
	}
	for _, tc := range cases {
		t.Run(tc.user+"/"+tc.pass, func(t *testing.T) {
			_, err := f.svc.Login.Login(context.Background(), dto.LoginRequest{Username: tc.user, Password: tc.pass})
			require.ErrorIs(t, err, tc.want)
			require.True(t, IsAuthenticationError(err))
		})
	}
}

func TestAuthenticate_ResolvesAuthorities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, err := f.store.Roles().FindByName(ctx, "ADMIN")
	require.NoError(t, err)
	f.addUser(t, "root", "pw", func(u *repository.User) { u.Roles = append(u.Roles, *admin) })

	a, err := f.svc.Login.Authenticate(ctx, "root", "pw")
	require.NoError(t, err)
	require.Equal(t, []string{"CREATE", "DELETE", "READ", "ROLE_ADMIN", "ROLE_USER", "UPDATE"}, a.Authorities)
}

func TestPrincipalLoader_ConcurrentLoadsReturnCopies(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", "pw", nil)
	loader := NewPrincipalLoader(f.store)

	var wg sync.WaitGroup
	users := make([]*repository.User, 8)
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := loader.Load(context.Background(), "alice")
			require.NoError(t, err)
			users[i] = u
		}(i)
	}
	wg.Wait()

	users[0].Username = "mutated"
	for _, u := range users[1:] {
		require.Equal(t, "alice", u.Username)
	}
}

// ---- provisioning ----

func TestProvision_MissingEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Provisioning.Provision(context.Background(), Identity{Provider: "github", Login: "bob"})
	var pe *ProvisioningError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, MissingEmailMessage, pe.Error())
}

func TestProvision_CreatesOnceThenReuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u1, err := f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "bob@example.com", Login: "bob"})
	require.NoError(t, err)
	require.True(t, u1.Enabled && u1.AccountNotExpired && u1.AccountNotLocked && u1.CredentialNotExpired)
	require.NotEmpty(t, u1.PasswordHash)
	require.Len(t, u1.Roles, 1)
	require.Equal(t, "USER", u1.Roles[0].Name)

	// rename del lado del proveedor
	u2, err := f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "bob@example.com", Login: "bobby"})
	require.NoError(t, err)
	require.Equal(t, u1.ID, u2.ID)
	require.Equal(t, "bobby", u2.Username)

	all, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProvision_UsernameFallsBackToEmailLocalPart(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.Provisioning.Provision(context.Background(), Identity{Provider: "github", Email: "carol.d@example.com"})
	require.NoError(t, err)
	require.Equal(t, "carol.d", u.Username)
}

func TestProvision_AdminPromotionReplacesRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byEmail, err := f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "boss@example.COM", Login: "someone"})
	require.NoError(t, err)
	require.Len(t, byEmail.Roles, 1)
	require.Equal(t, "ADMIN", byEmail.Roles[0].Name)

	byLogin, err := f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "other@example.com", Login: "BOSS"})
	require.NoError(t, err)
	require.Equal(t, "ADMIN", byLogin.Roles[0].Name)

	// sin match de admin el rol actual se conserva
	existing := f.addUser(t, "dave", "pw", func(u *repository.User) { u.Email = "dave@example.com" })
	require.True(t, existing.HasRole("USER"))
	promoted, err := f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "dave@example.com", Login: "boss2"})
	require.NoError(t, err)
	require.Equal(t, []string{"USER"}, roleNames(promoted))

	f2 := newFixture(t)
	f2.addUser(t, "erin", "pw", func(u *repository.User) { u.Email = "boss@example.com" })
	p, err := f2.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "boss@example.com", Login: "erin"})
	require.NoError(t, err)
	require.Equal(t, []string{"ADMIN"}, roleNames(p))
}

func TestProvision_MissingRoleIsConfigurationError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	role, err := f.store.Roles().FindByName(ctx, "USER")
	require.NoError(t, err)
	require.NoError(t, f.store.Roles().Delete(ctx, role.ID))

	_, err = f.svc.Provisioning.Provision(ctx, Identity{Provider: "github", Email: "zed@example.com", Login: "zed"})
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	// rollback: no quedó el usuario creado a medias
	_, err = f.store.Users().FindByEmail(ctx, "zed@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func roleNames(u *repository.User) []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}

// ---- oauth ----

func TestOAuth_StartAndCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gh.user = github.UserInfo{ID: 7, Login: "octo", Email: "octo@example.com"}

	redirect, err := f.svc.OAuth.Start(ctx)
	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	resp, err := f.svc.OAuth.Callback(ctx, state, "code-1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Token, "Bearer "))
	require.Equal(t, "octo@example.com", resp.Email)
	require.Equal(t, "octo", resp.Username)

	d, err := f.codec.Validate(strings.TrimPrefix(resp.Token, "Bearer "))
	require.NoError(t, err)
	require.Equal(t, "octo", d.Subject)
	require.Equal(t, []string{"READ"}, d.Permissions)

	// el state es de un solo uso
	_, err = f.svc.OAuth.Callback(ctx, state, "code-2")
	require.ErrorIs(t, err, ErrInvalidState)
	require.Equal(t, []string{"code-1"}, f.gh.codes)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OAuthProvisioning.WithLabelValues(metrics.ResultSuccess)))
}

func TestOAuth_CallbackErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OAuth.Callback(ctx, "", "code")
	require.ErrorIs(t, err, ErrInvalidState)
	_, err = f.svc.OAuth.Callback(ctx, "never-issued", "code")
	require.ErrorIs(t, err, ErrInvalidState)

	start := func() string {
		redirect, err := f.svc.OAuth.Start(ctx)
		require.NoError(t, err)
		u, _ := url.Parse(redirect)
		return u.Query().Get("state")
	}

	_, err = f.svc.OAuth.Callback(ctx, start(), "")
	require.ErrorIs(t, err, ErrMissingCode)

	boom := errors.New("github down")
	f.gh.exchangeErr = boom
	_, err = f.svc.OAuth.Callback(ctx, start(), "code")
	require.ErrorIs(t, err, boom)
	f.gh.exchangeErr = nil

	f.gh.user = github.UserInfo{Login: "bob"}
	_, err = f.svc.OAuth.Callback(ctx, start(), "code")
	var pe *ProvisioningError
	require.ErrorAs(t, err, &pe)
}

func TestOAuth_NotConfigured(t *testing.T) {
	st := memory.New()
	codec, err := jwt.NewCodec("k", "iss", time.Hour)
	require.NoError(t, err)
	svc := NewServices(Deps{DAL: st, Codec: codec})

	_, err = svc.OAuth.Start(context.Background())
	require.ErrorIs(t, err, ErrOAuthNotConfigured)
}

// ---- token ----

func TestTokenService(t *testing.T) {
	f := newFixture(t)
	p := authz.NewPrincipal("alice", []string{"READ", "ROLE_USER"})

	cur := f.svc.Token.CurrentUser(p)
	require.Equal(t, "JWT", cur.AuthType)
	require.Equal(t, []string{"READ", "ROLE_USER"}, cur.Authorities)

	resp, err := f.svc.Token.Reissue(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	d, err := f.codec.Validate(resp.Token)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"READ", "ROLE_USER"}, d.Authorities())
}
