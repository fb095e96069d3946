package http

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit is [Middleware] that allows perMinute requests per minute from each IP address,
// with bursts of the same size. Other requests get a 429 Too Many Requests.
// A perMinute of zero or less defaults to 10.
func RateLimit(log *slog.Logger, perMinute int) Middleware {
	if perMinute <= 0 {
		perMinute = 10
	}

	l := &ipLimiter{
		burst:    perMinute,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		visitors: map[string]*visitor{},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.allow(ip, time.Now()) {
				log.Info("Rate limited", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "too many requests, please wait a minute and try again", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	burst       int
	lastCleanup time.Time
	limit       rate.Limit
	mu          sync.Mutex
	visitors    map[string]*visitor
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > time.Minute {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > 10*time.Minute {
				delete(l.visitors, k)
			}
		}
		l.lastCleanup = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// clientIP from the remote address, which the RealIP middleware may have rewritten to a bare IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
