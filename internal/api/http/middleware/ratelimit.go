package middleware

import (
	"log"
	"net/http"

	"golang.org/x/time/rate"
)

// Дефолты лимитера, согласованные с секцией gateway в config.yml.
// Используются, когда в конфигурации нули: сервис не должен оставаться
// вовсе без ограничения частоты.
const (
	defaultRPS   = 100
	defaultBurst = 20
)

// RateLimit ограничивает частоту входящих запросов одним общим лимитером.
// rps - запросов в секунду, burst - допустимый кратковременный всплеск.
func RateLimit(next http.Handler, rps int, burst int) http.Handler {
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			log.Printf("[HTTP] Rate limit exceeded: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
