package auth

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetmax/meetmax-api/internal/platform/httpx"
)

// LoginLimiter throttles login attempts per requester using a fixed-window
// counter in Redis. It sits in front of the login route only; the global
// per-IP limit lives in the app middleware stack.
type LoginLimiter struct {
	client *redis.Client
	logger *slog.Logger
	max    int
	window time.Duration
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(client *redis.Client, logger *slog.Logger, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, logger: logger, max: max, window: window}
}

// Middleware rejects requests once the caller has exceeded the window's
// attempt budget. Redis being unreachable fails open: locking every user
// out of login is worse than briefly losing throttling.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)
		ctx := r.Context()

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn("login limiter unavailable", slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
				l.logger.Warn("login limiter expire", slog.Any("error", err))
			}
		}
		if count > int64(l.max) {
			httpx.Fail(w, http.StatusTooManyRequests,
				"Too many login attempts, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *LoginLimiter) key(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("login_attempts:%s", ip)
}
