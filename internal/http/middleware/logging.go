package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/logger"
)

// RequestIDHeader carries the per-request id back to the client.
const RequestIDHeader = "X-Request-Id"

// statusRecorder remembers the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type principalSinkKey struct{}

// withPrincipalSink lets an inner middleware report the authenticated
// username back to RequestLogger.
func withPrincipalSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, sink)
}

func recordPrincipal(ctx context.Context, username string) {
	if sink, ok := ctx.Value(principalSinkKey{}).(*string); ok {
		*sink = username
	}
}

// RequestLogger tags every request with a fresh id and logs one line when
// it completes.
//
// It wraps BasicAuth, so rejected requests are logged too.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			var principal string
			next.ServeHTTP(rec, r.WithContext(withPrincipalSink(r.Context(), &principal)))

			log.Info("request",
				logger.RequestID(id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				logger.Username(principal),
			)
		})
	}
}

// Recoverer turns a panic in a handler into a 500 and logs the stack.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					log.Error("panic while serving request",
						zap.Any("panic", v),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares so that the first one listed runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
