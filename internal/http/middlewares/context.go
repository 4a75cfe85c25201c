package middlewares

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/authz"
)

type ctxKey string

const (
	ctxPrincipalKey ctxKey = "principal"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithPrincipal inyecta el principal autenticado en el contexto y lo deja
// como actor de auditoría.
func WithPrincipal(ctx context.Context, p *authz.Principal) context.Context {
	if p != nil {
		ctx = audit.WithActor(ctx, p.Username)
	}
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// GetPrincipal devuelve el principal del request o nil si no hay
// autenticación (sin header o header no Bearer).
func GetPrincipal(ctx context.Context) *authz.Principal {
	if p, ok := ctx.Value(ctxPrincipalKey).(*authz.Principal); ok {
		return p
	}
	return nil
}

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// GetRequestID devuelve el request id o "".
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}
