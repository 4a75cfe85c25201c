// Package rate limita intentos por clave con una ventana fija compartida en
// Redis. Lo usa el endpoint de login cuando hay más de una réplica.
package rate

import (
	"context"
	"strconv"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es la decisión para un intento.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter cuenta hits por (clave, ventana). La ventana se alinea al
// reloj: todas las réplicas comparten el mismo contador.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *RedisLimiter) key(k string, at time.Time) string {
	var b strings.Builder
	b.WriteString(l.prefix)
	b.WriteString(strings.ReplaceAll(k, " ", "_"))
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(at.UTC().Truncate(l.window).Unix(), 10))
	return b.String()
}

// Allow registra un hit. SET NX PX crea el contador con su expiración en el
// mismo MULTI que el INCR, así una caída entre comandos no deja claves sin TTL.
func (l *RedisLimiter) Allow(ctx context.Context, k string) (Result, error) {
	key := l.key(k, l.now())

	var incr *rdb.IntCmd
	var pttl *rdb.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(p rdb.Pipeliner) error {
		p.SetNX(ctx, key, 0, l.window)
		incr = p.Incr(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return l.decide(incr.Val(), pttl.Val()), nil
}

func (l *RedisLimiter) decide(hits int64, ttl time.Duration) Result {
	if ttl <= 0 {
		ttl = l.window
	}
	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   max(l.max-hits, 0),
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res
}
