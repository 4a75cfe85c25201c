package helpers

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/validation"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func v() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// reportar el nombre JSON del campo, no el de Go
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("authority", func(fl validator.FieldLevel) bool {
			return validation.ValidAuthorityName(strings.TrimSpace(fl.Field().String()))
		})
	})
	return validate
}

// Validate aplica los tags `validate` del DTO. Devuelve *errors.AppError
// (400) con el detalle de los campos inválidos.
func Validate(dto any) error {
	err := v().Struct(dto)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrBadRequest.WithCause(err)
	}

	parts := make([]string, 0, len(verrs))
	missing := true
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			missing = false
		}
		parts = append(parts, describe(fe))
	}
	base := errors.ErrBadRequest
	if missing {
		base = errors.ErrMissingFields
	}
	return base.WithDetail(strings.Join(parts, "; ")).WithCause(err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es requerido"
	case "max":
		return fmt.Sprintf("%s excede el máximo (%s)", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s no alcanza el mínimo (%s)", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " no es un email válido"
	case "authority":
		return fe.Field() + " no es un nombre de rol/permiso válido"
	default:
		return fmt.Sprintf("%s inválido (%s)", fe.Field(), fe.Tag())
	}
}
