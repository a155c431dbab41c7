package middleware

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("too many requests, slow down")

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 1024
)

type peerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-peer token bucket. Peers are keyed by remote IP.
type RateLimiter struct {
	mu    sync.Mutex
	peers map[string]*peerLimiter
	limit rate.Limit
	burst int
	now   func() time.Time
}

// NewRateLimiter allows perMinute sustained calls per peer with the given burst.
func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	return &RateLimiter{
		peers: make(map[string]*peerLimiter),
		limit: rate.Limit(perMinute / 60),
		burst: burst,
		now:   time.Now,
	}
}

// Allow reports whether peer may make another call now.
func (l *RateLimiter) Allow(peer string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.peers) >= limiterSweepSize {
		for key, p := range l.peers {
			if now.Sub(p.lastSeen) > limiterIdleTTL {
				delete(l.peers, key)
			}
		}
	}

	p, ok := l.peers[peer]
	if !ok {
		p = &peerLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.peers[peer] = p
	}
	p.lastSeen = now
	return p.limiter.AllowN(now, 1)
}

// Interceptor rejects calls with CodeResourceExhausted once the calling
// peer's bucket is empty.
func (l *RateLimiter) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !l.Allow(peerKey(req.Peer().Addr)) {
				return nil, connect.NewError(connect.CodeResourceExhausted, errRateLimited)
			}
			return next(ctx, req)
		}
	}
}

func peerKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
