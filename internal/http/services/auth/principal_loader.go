package auth

import (
	"context"
	"time"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"golang.org/x/sync/singleflight"
)

// loadTimeout acota la carga compartida, que ya no depende del ctx de
// ningún caller.
const loadTimeout = 5 * time.Second

// PrincipalLoader carga usuarios por username deduplicando cargas
// concurrentes del mismo nombre (ráfagas de login).
type PrincipalLoader struct {
	dal   repository.DataAccess
	group singleflight.Group
}

func NewPrincipalLoader(dal repository.DataAccess) *PrincipalLoader {
	return &PrincipalLoader{dal: dal}
}

// Load devuelve una copia propia del usuario: los callers pueden mutarla.
// La cancelación de un caller sólo corta su propia espera.
func (l *PrincipalLoader) Load(ctx context.Context, username string) (*repository.User, error) {
	ch := l.group.DoChan(username, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return l.dal.Users().FindByUsername(lctx, username)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*repository.User)
		u.Roles = append([]repository.Role(nil), u.Roles...)
		return &u, nil
	}
}
