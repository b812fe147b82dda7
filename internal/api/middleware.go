package api

import (
	"net/http"
	"strconv"
	"time"

	"shareit/internal/metrics"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware tags every request with an id, honoring one the
// caller already sent.
func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.IncHTTP(endpoint, strconv.Itoa(recorder.status))

		s.logger.Info().
			Str("request_id", w.Header().Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitMiddleware throttles per acting user. Anonymous routes
// (user management, health) pass through unthrottled.
func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := actingUser(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		window := time.Duration(s.cfg.RateLimit.WindowSeconds) * time.Second
		allowed, err := s.limiter.Allow(r.Context(), "user:"+strconv.FormatInt(userID, 10), s.cfg.RateLimit.RequestsPerUser, window)
		if err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("rate limiter error")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
