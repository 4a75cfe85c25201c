// Package audit registra las mutaciones administrativas con el actor que
// las pidió. Los eventos salen por el logger del request bajo "audit".
package audit

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	UserCreated       = "user.created"
	UserUpdated       = "user.updated"
	UserDeleted       = "user.deleted"
	RoleCreated       = "role.created"
	RolePermsReplaced = "role.permissions_replaced"
	RoleDeleted       = "role.deleted"
	PermissionCreated = "permission.created"
	PermissionRenamed = "permission.renamed"
	PermissionDeleted = "permission.deleted"
	AuthorDeleted     = "author.deleted"
	PostDeleted       = "post.deleted"
)

// SystemActor es el actor cuando no hay principal (seed, CLI).
const SystemActor = "system"

type ctxKey struct{}

// WithActor guarda el username del principal autenticado.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKey{}, username)
}

// Actor devuelve el actor del contexto o SystemActor.
func Actor(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok && s != "" {
		return s
	}
	return SystemActor
}

// Log escribe el evento con el actor y los campos dados.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	fields = append(fields, zap.String("event", event), zap.String("actor", Actor(ctx)))
	logger.From(ctx).Named("audit").Info(event, fields...)
}
