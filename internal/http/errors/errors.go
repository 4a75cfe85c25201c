// Package errors define el catálogo de errores HTTP y cómo se serializan.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte cualquier error en AppError. Lo que no es AppError
// termina como 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe la respuesta HTTP para err.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Status:  "error",
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// ---- cuerpos fijos, fuera del catálogo ----

// InvalidTokenMessage es el mensaje del 401 del filtro de autenticación.
const InvalidTokenMessage = "Token inválido o expirado"

type invalidTokenBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// WriteInvalidToken escribe {"error":"Token inválido o expirado","status":401}.
func WriteInvalidToken(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(invalidTokenBody{Error: InvalidTokenMessage, Status: http.StatusUnauthorized})
}

// OAuthFailureMessage acompaña a todo fallo del login OAuth2.
const OAuthFailureMessage = "Ocurrió un error interno al procesar el login de OAuth2. Revise los logs del servidor."

type oauthFailureBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteOAuthFailure escribe 500 {"error":...,"message":cause}.
func WriteOAuthFailure(w http.ResponseWriter, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(oauthFailureBody{Error: OAuthFailureMessage, Message: msg})
}
