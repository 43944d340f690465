package rest

import (
	"net/http"
	"time"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// requestTraceID берет X-Trace-ID клиента, если это uuid, иначе выдает новый
func requestTraceID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(traceHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// LoggerMiddleware кладет в контекст запроса логгер с trace_id и пишет итог запроса.
// Уровень итоговой записи зависит от кода ответа.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := requestTraceID(r)
			reqLogger := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithLogger(r.Context(), reqLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}
			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}

			switch status := ww.Status(); {
			case status >= http.StatusInternalServerError:
				reqLogger.Warn("Request failed", fields)
			case status >= http.StatusBadRequest:
				reqLogger.Info("Request rejected", fields)
			default:
				reqLogger.Debug("Request served", fields)
			}
		})
	}
}
