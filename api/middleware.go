/*
middleware.go - Request logging and allow-list authorization

PURPOSE:
  RequestLogger emits one structured zap line per request. Authorize
  enforces the static allow-list of user ids: requests naming a user outside
  the list are rejected with 403 before any handler runs. There is no
  authentication beyond the list; that matches the deployment model of a
  small trusted group.
*/
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/clockwork/attendance-engine/attendance"
	"github.com/clockwork/attendance-engine/config"
)

// RequestLogger logs method, path, status and latency for every request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.Int("status", ww.Status()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case ww.Status() >= 500:
				logger.Error("request failed", fields...)
			case ww.Status() >= 400:
				logger.Warn("client error", fields...)
			default:
				logger.Info("request complete", fields...)
			}
		})
	}
}

// Authorize rejects requests whose {userID} URL parameter is not on the
// allow-list.
func Authorize(auth config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "userID")
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid user id", err)
				return
			}
			if !auth.Authorized(attendance.UserID(id)) {
				writeError(w, http.StatusForbidden, "user is not authorized", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
