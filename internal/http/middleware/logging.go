package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ResultTypeHeader is the response header handlers set to the classified
// result type.
const ResultTypeHeader = "X-Result-Type"

// RequestLogger logs one line per request, at warn for 4xx and error for 5xx.
// The classified result type is logged when the handler reports one.
// Request bodies are never logged: scanned payloads may carry personal data.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				attrs = append(attrs, "request_id", reqID)
			}
			if ip := r.RemoteAddr; ip != "" {
				attrs = append(attrs, "ip", ip)
			}
			if resultType := ww.Header().Get(ResultTypeHeader); resultType != "" {
				attrs = append(attrs, "result_type", resultType)
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("http_request", attrs...)
			case ww.Status() >= 400:
				logger.Warn("http_request", attrs...)
			default:
				logger.Info("http_request", attrs...)
			}
		})
	}
}
