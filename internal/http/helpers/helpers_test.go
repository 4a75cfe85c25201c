package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type loginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

func TestReadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice","password":"x","extra":1}`))
	r.Header.Set("Content-Type", "application/json")
	var dto loginDTO
	require.True(t, ReadJSON(rec, r, &dto))
	require.Equal(t, "alice", dto.Username)

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{nope`))
	require.False(t, ReadJSON(rec, r, &dto))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_JSON")

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.False(t, ReadJSON(rec, r, &dto))
	require.Contains(t, rec.Body.String(), "MISSING_FIELDS")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(loginDTO{Username: "a", Password: "b"}))

	err := Validate(loginDTO{})
	appErr := errors.FromError(err)
	require.Equal(t, "MISSING_FIELDS", appErr.Code)
	require.Contains(t, appErr.Detail, "username es requerido")
	require.Contains(t, appErr.Detail, "password es requerido")

	err = Validate(loginDTO{Username: "a", Password: strings.Repeat("x", 73)})
	appErr = errors.FromError(err)
	require.Equal(t, "BAD_REQUEST", appErr.Code)
	require.Contains(t, appErr.Detail, "password excede")
}

type roleDTO struct {
	Name string `json:"name" validate:"required,authority"`
}

func TestValidate_AuthorityTag(t *testing.T) {
	require.NoError(t, Validate(roleDTO{Name: "EDITOR"}))

	appErr := errors.FromError(Validate(roleDTO{Name: "ROLE_EDITOR"}))
	require.Equal(t, "BAD_REQUEST", appErr.Code)
	require.Contains(t, appErr.Detail, "name no es un nombre de rol/permiso válido")

	appErr = errors.FromError(Validate(roleDTO{Name: "two words"}))
	require.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestPathID(t *testing.T) {
	mk := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	id, err := PathID(mk("42"), "id")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	_, err = PathID(mk("abc"), "id")
	require.Error(t, err)
	_, err = PathID(mk("-1"), "id")
	require.Error(t, err)
}
