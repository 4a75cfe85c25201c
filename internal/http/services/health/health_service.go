// Package health contiene el service de health checks.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/health"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

const (
	StatusReady       = "ready"
	StatusUnavailable = "unavailable"

	defaultCheckTimeout = 2 * time.Second
)

// Checker es cualquier dependencia que sabe responder un ping.
type Checker func(ctx context.Context) error

type HealthService interface {
	// Live sólo confirma que el proceso atiende.
	Live(ctx context.Context) dto.HealthResponse
	// Ready pingea cada componente; uno caído deja el servicio unavailable.
	Ready(ctx context.Context) dto.HealthResponse
}

type Deps struct {
	Checks  map[string]Checker // "store", "cache"
	Timeout time.Duration
	Now     func() time.Time
}

type healthService struct{ deps Deps }

func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = defaultCheckTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &healthService{deps: d}
}

func (s *healthService) Live(_ context.Context) dto.HealthResponse {
	return dto.HealthResponse{Status: StatusReady, Timestamp: s.deps.Now().UTC()}
}

func (s *healthService) Ready(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"), logger.Op("Ready"))

	resp := dto.HealthResponse{
		Status:     StatusReady,
		Components: make(map[string]dto.ComponentStatus, len(s.deps.Checks)),
		Timestamp:  s.deps.Now().UTC(),
	}
	for name, check := range s.deps.Checks {
		if check == nil {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		err := check(cctx)
		cancel()
		if err != nil {
			log.Warn("component down", logger.String("component_name", name), logger.Err(err))
			resp.Components[name] = dto.ComponentStatus{Status: StatusUnavailable, Error: err.Error()}
			resp.Status = StatusUnavailable
			continue
		}
		resp.Components[name] = dto.ComponentStatus{Status: StatusReady}
	}
	return resp
}
