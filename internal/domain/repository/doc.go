// Package repository define los contratos de persistencia del dominio:
// usuarios, roles, permisos, autores y posts.
//
// Las implementaciones viven en internal/store/pg (Postgres via pgx) e
// internal/store/memory (proceso, para dev y tests).
//
//	services ──► repository.DataAccess ──► store/pg | store/memory
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - "No existe" se reporta con ErrNotFound, duplicados con ErrConflict.
//   - Las asociaciones (user_roles, role_permissions) se reemplazan como
//     conjunto completo; nunca se mutan en sitio.
package repository
