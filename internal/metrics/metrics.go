// Package metrics agrupa los collectors Prometheus del servicio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados usados como label "result".
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultLimited = "rate_limited"
)

// Metrics contiene los collectors registrados en un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	LoginTotal          *prometheus.CounterVec
	TokenRejections     prometheus.Counter
	OAuthProvisioning   *prometheus.CounterVec
}

// New crea y registra todos los collectors (más los de proceso y Go runtime).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LoginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Intentos de login por usuario/contraseña por resultado",
		}, []string{"result"}),
		TokenRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Bearer tokens rechazados por el filtro de autenticación",
		}),
		OAuthProvisioning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_oauth_provisioning_total",
			Help: "Provisionamientos OAuth2 por resultado",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.LoginTotal,
		m.TokenRejections,
		m.OAuthProvisioning,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry permite registrar collectors adicionales (ej: pool de pgx).
func (m *Metrics) Registry() prometheus.Registerer { return m.registry }

// Los helpers toleran receptor nil: services y middlewares funcionan sin métricas.

func (m *Metrics) Login(result string) {
	if m != nil {
		m.LoginTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) TokenRejected() {
	if m != nil {
		m.TokenRejections.Inc()
	}
}

func (m *Metrics) Provisioning(result string) {
	if m != nil {
		m.OAuthProvisioning.WithLabelValues(result).Inc()
	}
}

// PoolStat es una foto del pool de conexiones.
type PoolStat struct {
	Acquired int32
	Idle     int32
	Total    int32
}

// RegisterPool expone db_pool_connections{state} leyendo stat en cada scrape.
func (m *Metrics) RegisterPool(stat func() PoolStat) error {
	if m == nil || stat == nil {
		return nil
	}
	for state, pick := range map[string]func(PoolStat) int32{
		"acquired": func(s PoolStat) int32 { return s.Acquired },
		"idle":     func(s PoolStat) int32 { return s.Idle },
		"total":    func(s PoolStat) int32 { return s.Total },
	} {
		pick := pick
		g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "db_pool_connections",
			Help:        "Conexiones del pool de Postgres por estado",
			ConstLabels: prometheus.Labels{"state": state},
		}, func() float64 { return float64(pick(stat())) })
		if err := m.registry.Register(g); err != nil {
			return err
		}
	}
	return nil
}
