package repository

import "context"

// DataAccess agrupa los repositorios y la frontera transaccional.
type DataAccess interface {
	Users() UserRepository
	Roles() RoleRepository
	Permissions() PermissionRepository
	Authors() AuthorRepository
	Posts() PostRepository

	// WithTransaction ejecuta fn de forma atómica. Si fn devuelve error no
	// queda ninguna escritura aplicada. Los repositorios de tx sólo son
	// válidos dentro de fn. Llamadas anidadas reutilizan la misma tx.
	WithTransaction(ctx context.Context, fn func(tx DataAccess) error) error

	// Ping verifica que el backend responde (readyz).
	Ping(ctx context.Context) error
}
