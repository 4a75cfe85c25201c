package jwt

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/blogweb/internal/config"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(t *testing.T, ttl time.Duration) (*Codec, *fakeClock) {
	t.Helper()
	c, err := NewCodec("my-super-secret-key-for-testing-12345", "test-issuer", ttl)
	require.NoError(t, err)
	clk := &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	return c.WithClock(clk.Now), clk
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	c, _ := newTestCodec(t, time.Hour)

	tok, err := c.Issue("testuser", []string{"ROLE_USER", "READ", "COMMENT", "READ"})
	require.NoError(t, err)

	d, err := c.Validate(tok)
	require.NoError(t, err)
	require.Equal(t, "testuser", d.Subject)
	require.Equal(t, "test-issuer", d.Issuer)
	require.ElementsMatch(t, []string{"READ", "COMMENT"}, d.Permissions)
	require.Equal(t, []string{"USER"}, d.Roles)
	require.ElementsMatch(t, []string{"ROLE_USER", "READ", "COMMENT"}, d.Authorities())
	require.Equal(t, time.Hour, d.ExpiresAt.Sub(d.IssuedAt))

	sub, ok := d.Claim("sub")
	require.True(t, ok)
	require.Equal(t, "testuser", sub)
	require.GreaterOrEqual(t, len(d.Claims), 4)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	c, clk := newTestCodec(t, time.Hour)
	issued := clk.t

	tok, err := c.Issue("alice", []string{"READ"})
	require.NoError(t, err)

	clk.t = issued.Add(time.Hour - time.Second)
	_, err = c.Validate(tok)
	require.NoError(t, err)

	clk.t = issued.Add(time.Hour + time.Second)
	_, err = c.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.True(t, errors.Is(err, jwtv5.ErrTokenExpired))
}

func TestValidate_OneMillisecondTTL(t *testing.T) {
	c, err := NewCodec("k", "iss", time.Millisecond)
	require.NoError(t, err)

	tok, err := c.Issue("alice", []string{"READ"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = c.Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_TamperedSignature(t *testing.T) {
	c, _ := newTestCodec(t, time.Hour)
	tok, err := c.Issue("alice", []string{"READ"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	for i := range sig {
		cp := append([]byte(nil), sig...)
		cp[i] ^= 0xFF
		bad := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(cp)
		_, err := c.Validate(bad)
		require.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestValidate_Rejections(t *testing.T) {
	c, clk := newTestCodec(t, time.Hour)
	tok, err := c.Issue("alice", nil)
	require.NoError(t, err)

	otherIss, err := NewCodec("my-super-secret-key-for-testing-12345", "someone-else", time.Hour)
	require.NoError(t, err)
	otherKey, err := NewCodec("another-secret", "test-issuer", time.Hour)
	require.NoError(t, err)

	none := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, jwtv5.MapClaims{
		"iss": "test-issuer", "sub": "alice", "exp": clk.t.Add(time.Hour).Unix(),
	})
	noneTok, err := none.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		codec *Codec
		token string
	}{
		"garbage":      {c, "this.is.not.a.valid.token"},
		"empty":        {c, ""},
		"wrong issuer": {otherIss.WithClock(clk.Now), tok},
		"wrong key":    {otherKey.WithClock(clk.Now), tok},
		"alg none":     {c, noneTok},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.codec.Validate(tc.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewCodec_Configuration(t *testing.T) {
	var cfgErr *config.ConfigurationError

	_, err := NewCodec("", "iss", time.Hour)
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "jwt.secret", cfgErr.Key)

	_, err = NewCodec("k", " ", time.Hour)
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "jwt.issuer", cfgErr.Key)

	_, err = NewCodec("k", "iss", 0)
	require.ErrorAs(t, err, &cfgErr)
}

func TestPartition(t *testing.T) {
	roles, perms := Partition([]string{"ROLE_ADMIN", "DELETE", "READ", "ROLE_ADMIN", "", "READ"})
	require.Equal(t, []string{"ADMIN"}, roles)
	require.Equal(t, []string{"DELETE", "READ"}, perms)

	roles, perms = Partition(nil)
	require.Empty(t, roles)
	require.Empty(t, perms)
}
