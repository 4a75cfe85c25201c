package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ---- HTTP ----

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// ---- Estructura del código ----

// Layer identifica la capa (controller, service, repository, middleware).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Component identifica el componente dentro de la capa (ej: "auth.login").
func Component(v string) zap.Field { return zap.String("component", v) }

// Op identifica la operación (ej: "RoleService.Delete").
func Op(v string) zap.Field { return zap.String("op", v) }

// Err agrega el error; nil se ignora.
func Err(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.Error(err)
}

// ---- Negocio ----

func Username(v string) zap.Field { return zap.String("username", v) }
func UserID(v int64) zap.Field { return zap.Int64("user_id", v) }
func RoleID(v int64) zap.Field { return zap.Int64("role_id", v) }
func Role(v string) zap.Field { return zap.String("role", v) }
func PermissionID(v int64) zap.Field { return zap.Int64("permission_id", v) }
func AuthorID(v int64) zap.Field { return zap.Int64("author_id", v) }
func PostID(v int64) zap.Field { return zap.Int64("post_id", v) }
func Provider(v string) zap.Field { return zap.String("provider", v) }
func Count(v int) zap.Field { return zap.Int("count", v) }

// Email loguea el email enmascarado: "al***@example.com".
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// MaskEmail deja las dos primeras letras del local part.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return "***"
	}
	local := email[:at]
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "***" + email[at:]
}

// ---- Genéricos ----

func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
