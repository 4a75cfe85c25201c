// Package jwt emite y valida los access tokens (HS256, stateless).
//
// Claims emitidos: iss, sub, iat, exp, permissions y roles. Los roles viajan
// sin prefijo ("ADMIN"); quien arma las authorities agrega "ROLE_".
package jwt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dropDatabas3/blogweb/internal/config"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	ClaimPermissions = "permissions"
	ClaimRoles       = "roles"

	// RolePrefix marca las authorities que representan roles.
	RolePrefix = "ROLE_"
)

// ErrInvalidToken cubre firma inválida, issuer distinto, exp vencido o
// token malformado. El detalle queda en la cadena (errors.Unwrap).
var ErrInvalidToken = errors.New("invalid_token")

// Codec firma y valida tokens con un secreto simétrico. Inmutable tras
// NewCodec: seguro para uso concurrente.
type Codec struct {
	secret []byte
	Iss    string
	TTL    time.Duration
	now    func() time.Time
}

// NewCodec valida la configuración mínima y arma el codec.
func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, &config.ConfigurationError{Key: "jwt.secret", Msg: "empty signing secret"}
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, &config.ConfigurationError{Key: "jwt.issuer", Msg: "empty issuer"}
	}
	if ttl <= 0 {
		return nil, &config.ConfigurationError{Key: "jwt.expiration_ms", Msg: "must be > 0"}
	}
	return &Codec{secret: []byte(secret), Iss: issuer, TTL: ttl, now: time.Now}, nil
}

// WithClock devuelve una copia que usa now como reloj (tests).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue separa authorities en roles (prefijo ROLE_) y permisos y firma el token.
func (c *Codec) Issue(subject string, authorities []string) (string, error) {
	roles, perms := Partition(authorities)
	now := c.now()
	claims := jwtv5.MapClaims{
		"iss":            c.Iss,
		"sub":            subject,
		"iat":            jwtv5.NewNumericDate(now),
		"exp":            jwtv5.NewNumericDate(now.Add(c.TTL)),
		ClaimPermissions: perms,
		ClaimRoles:       roles,
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Validate verifica firma HS256, issuer y exp. Cualquier fallo envuelve
// ErrInvalidToken.
func (c *Codec) Validate(token string) (*Decoded, error) {
	keyfunc := func(*jwtv5.Token) (any, error) { return c.secret, nil }
	tok, err := jwtv5.Parse(token, keyfunc,
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(c.Iss),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithIssuedAt(),
		jwtv5.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	d := &Decoded{Claims: claims}
	d.Subject, _ = claims.GetSubject()
	d.Issuer, _ = claims.GetIssuer()
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		d.IssuedAt = iat.Time
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		d.ExpiresAt = exp.Time
	}
	d.Permissions = stringList(claims[ClaimPermissions])
	d.Roles = stringList(claims[ClaimRoles])
	return d, nil
}

// Decoded es un token ya validado.
type Decoded struct {
	Subject     string
	Issuer      string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Permissions []string
	Roles       []string
	Claims      map[string]any
}

// Claim devuelve un claim arbitrario tal como vino en el payload.
func (d *Decoded) Claim(name string) (any, bool) {
	v, ok := d.Claims[name]
	return v, ok
}

// Authorities reconstruye el set de authorities: roles con prefijo ROLE_
// (si no lo traían) más permisos tal cual.
func (d *Decoded) Authorities() []string {
	out := make([]string, 0, len(d.Roles)+len(d.Permissions))
	for _, r := range d.Roles {
		if !strings.HasPrefix(r, RolePrefix) {
			r = RolePrefix + r
		}
		out = append(out, r)
	}
	return append(out, d.Permissions...)
}

// Partition separa authorities en nombres de rol (sin prefijo) y permisos.
// Ambos resultados salen ordenados y sin duplicados.
func Partition(authorities []string) (roles, perms []string) {
	roles, perms = []string{}, []string{}
	seen := make(map[string]struct{}, len(authorities))
	for _, a := range authorities {
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		if strings.HasPrefix(a, RolePrefix) {
			roles = append(roles, strings.TrimPrefix(a, RolePrefix))
		} else {
			perms = append(perms, a)
		}
	}
	sort.Strings(roles)
	sort.Strings(perms)
	return roles, perms
}

// stringList tolera claim ausente, []any (json) o []string.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
