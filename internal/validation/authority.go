// Package validation contiene reglas de formato compartidas entre DTOs y seed.
package validation

import (
	"regexp"
	"strings"
)

// RolePrefix es el prefijo reservado a roles dentro de las authorities.
const RolePrefix = "ROLE_"

// Nombre de rol o permiso:
// - empieza con letra y sigue con [A-Za-z0-9_:.-]
// - 1..100 caracteres, sin espacios ni comas
// - sin prefijo ROLE_ (se agrega al emitir el token)
var authorityNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_:.\-]{0,99}$`)

// ValidAuthorityName reporta si name puede usarse como nombre de rol o permiso.
func ValidAuthorityName(name string) bool {
	if strings.HasPrefix(strings.ToUpper(name), RolePrefix) {
		return false
	}
	return authorityNameRe.MatchString(name)
}
