package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/blogweb/internal/cache"
	"github.com/dropDatabas3/blogweb/internal/store/memory"
	"github.com/stretchr/testify/require"
)

func TestReady_AllUp(t *testing.T) {
	c := cache.NewMemory("t:", time.Minute)
	svc := NewHealthService(Deps{Checks: map[string]Checker{
		"store": memory.New().Ping,
		"cache": c.Ping,
	}})

	resp := svc.Ready(context.Background())
	require.Equal(t, StatusReady, resp.Status)
	require.Len(t, resp.Components, 2)
	require.Equal(t, StatusReady, resp.Components["cache"].Status)
}

func TestReady_ComponentDown(t *testing.T) {
	svc := NewHealthService(Deps{Checks: map[string]Checker{
		"store": func(context.Context) error { return errors.New("connection refused") },
		"cache": func(context.Context) error { return nil },
	}})

	resp := svc.Ready(context.Background())
	require.Equal(t, StatusUnavailable, resp.Status)
	require.Equal(t, "connection refused", resp.Components["store"].Error)
	require.Equal(t, StatusReady, resp.Components["cache"].Status)
}

func TestReady_CheckTimesOut(t *testing.T) {
	svc := NewHealthService(Deps{
		Timeout: 10 * time.Millisecond,
		Checks: map[string]Checker{
			"store": func(ctx context.Context) error { <-ctx.Done(); return ctx.Err() },
		},
	})
	resp := svc.Ready(context.Background())
	require.Equal(t, StatusUnavailable, resp.Status)
}

func TestLive(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewHealthService(Deps{Now: func() time.Time { return fixed }})
	resp := svc.Live(context.Background())
	require.Equal(t, StatusReady, resp.Status)
	require.Equal(t, fixed, resp.Timestamp)
	require.Empty(t, resp.Components)
}
