// Package authz deriva authorities a partir de roles y permisos y define el
// principal que viaja en el contexto de cada request.
package authz

import (
	"sort"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/jwt"
)

// Resolve devuelve "ROLE_<name>" por cada rol más el nombre de cada permiso
// alcanzable. Sin duplicados y ordenado. Trabaja sobre el snapshot recibido:
// no consulta storage.
func Resolve(u *repository.User) []string {
	if u == nil {
		return []string{}
	}
	set := make(Set, len(u.Roles)*4)
	for _, r := range u.Roles {
		set[RoleAuthority(r.Name)] = struct{}{}
		for _, p := range r.Permissions {
			set[p.Name] = struct{}{}
		}
	}
	return set.Sorted()
}

// RoleAuthority agrega el prefijo ROLE_ si falta.
func RoleAuthority(name string) string {
	if strings.HasPrefix(name, jwt.RolePrefix) {
		return name
	}
	return jwt.RolePrefix + name
}

// Set de authorities.
type Set map[string]struct{}

func NewSet(authorities ...string) Set {
	s := make(Set, len(authorities))
	for _, a := range authorities {
		if a != "" {
			s[a] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(authority string) bool {
	_, ok := s[authority]
	return ok
}

// HasAny reporta si contiene al menos una de las authorities.
func (s Set) HasAny(authorities ...string) bool {
	for _, a := range authorities {
		if s.Has(a) {
			return true
		}
	}
	return false
}

func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Principal es la identidad autenticada de un request. No lleva credenciales.
type Principal struct {
	Username    string
	Authorities Set
}

func NewPrincipal(username string, authorities []string) *Principal {
	return &Principal{Username: username, Authorities: NewSet(authorities...)}
}

// FromToken arma el principal a partir de un token ya validado.
func FromToken(d *jwt.Decoded) *Principal {
	return NewPrincipal(d.Subject, d.Authorities())
}

func (p *Principal) Has(authority string) bool {
	return p != nil && p.Authorities.Has(authority)
}

func (p *Principal) HasRole(role string) bool {
	return p.Has(RoleAuthority(role))
}
