package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrNotFound.WithDetail("autor 9"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "error", body["status"])
	require.Equal(t, "NOT_FOUND", body["code"])
	require.Equal(t, "autor 9", body["detail"])
}

func TestWriteError_WrappedAndGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("ctx: %w", ErrForbidden))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	WriteError(rec, stderrors.New("db down"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "db down")
}

func TestWithDetail_DoesNotMutateCatalog(t *testing.T) {
	_ = ErrBadRequest.WithDetail("x").WithCause(stderrors.New("y"))
	require.Empty(t, ErrBadRequest.Detail)
	require.Nil(t, ErrBadRequest.Err)
}

func TestWriteInvalidToken(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInvalidToken(rec)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Token inválido o expirado","status":401}`, rec.Body.String())
}

func TestWriteOAuthFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOAuthFailure(rec, stderrors.New("email requerido"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, OAuthFailureMessage, body["error"])
	require.Equal(t, "email requerido", body["message"])
}
