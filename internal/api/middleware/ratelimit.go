package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// UserRateLimiter держит token bucket на каждого пользователя.
// Лимитеры неактивных пользователей вытесняются из кэша по idle.
type UserRateLimiter struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
	idle     time.Duration
}

// NewUserRateLimiter rps запросов в секунду с пачкой burst
func NewUserRateLimiter(rps float64, burst int, idle time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: cache.New(idle, 2*idle),
		r:        rate.Limit(rps),
		b:        burst,
		idle:     idle,
	}
}

// GetLimiter возвращает лимитер ключа и продлевает его жизнь
func (l *UserRateLimiter) GetLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.Set(key, limiter, l.idle)
		return limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.limiters.Add(key, limiter, l.idle); err != nil {
		// ключ успели добавить параллельно
		if v, ok := l.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimit ограничивает запросы по пользователю, без Auth по IP
func RateLimit(limiter *UserRateLimiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.GetLimiter(rateKey(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
