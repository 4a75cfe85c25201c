package config

import "fmt"

// ConfigurationError indica un error de despliegue: valor obligatorio ausente
// o datos de seed (roles/permisos) que deberían existir y no existen.
// No es un error de usuario; la operación que lo recibe debe abortar.
type ConfigurationError struct {
	Key string
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Key, e.Msg, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
