package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Login(ResultSuccess)
	m.Login(ResultFailure)
	m.Login(ResultFailure)
	m.TokenRejected()
	m.Provisioning(ResultSuccess)

	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginTotal.WithLabelValues(ResultFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokenRejections))
	require.Equal(t, 1.0, testutil.ToFloat64(m.OAuthProvisioning.WithLabelValues(ResultSuccess)))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Login(ResultSuccess)
		m.TokenRejected()
		m.Provisioning(ResultFailure)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.TokenRejected()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "auth_token_rejections_total 1")
}

func TestRegisterPool(t *testing.T) {
	m := New()
	stat := PoolStat{Acquired: 2, Idle: 3, Total: 5}
	require.NoError(t, m.RegisterPool(func() PoolStat { return stat }))

	stat.Acquired = 4
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), `db_pool_connections{state="acquired"} 4`)
	require.Contains(t, rec.Body.String(), `db_pool_connections{state="total"} 5`)

	// registrar dos veces el mismo pool es un error del registry
	require.Error(t, m.RegisterPool(func() PoolStat { return stat }))
}
