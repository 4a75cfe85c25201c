// Package migrations embebe los scripts SQL del esquema.
package migrations

import "embed"

// PostgresFS contiene las migraciones de Postgres ({version}_{name}.sql).
//
//go:embed *.sql
var PostgresFS embed.FS

// PostgresDir es el directorio dentro de PostgresFS donde viven.
const PostgresDir = "."
