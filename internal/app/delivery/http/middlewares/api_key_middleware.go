package middlewares

import (
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// RequireAPIKey guards operator routes with the static x-api-key header.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)
		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyRequired(nil))
			return
		}

		expected := m.InternalConfig.App.SuperadminAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			m.Log.Warn("API key authentication failed",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.String(constvars.LoggingMethodKey, r.Method),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
