package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func logsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		zap.L().Info("request",
			zap.String("Method", r.Method),
			zap.String("URL", r.URL.String()),
			zap.String("RequestID", requestID),
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		zap.L().Info("response",
			zap.String("Method", r.Method),
			zap.String("URL", r.URL.String()),
			zap.String("RequestID", requestID),
			zap.Int("Status", ww.Status()),
			zap.Duration("completion time", duration),
		)
	})
}
