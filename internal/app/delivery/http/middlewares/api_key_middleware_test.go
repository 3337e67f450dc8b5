package middlewares

import (
	"clinic-service/internal/app/config"
	"clinic-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequireAPIKey(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-superadmin-api-key-12345"
	internalConfig := &config.InternalConfig{
		App: config.App{
			SuperadminAPIKey: testAPIKey,
		},
	}

	middlewares := &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeyAuth, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH).(bool)
		assert.True(t, ok, "CONTEXT_API_KEY_AUTH should be set")
		assert.True(t, apiKeyAuth, "CONTEXT_API_KEY_AUTH should be true")

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for valid API key")
		assert.Equal(t, "success", rr.Body.String(), "should return success message")
	})

	t.Run("Missing API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for missing API key")
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)
		req.Header.Set(constvars.HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for invalid API key")
	})

	t.Run("Case Sensitivity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)
		req.Header.Set(constvars.HeaderAPIKey, "TEST-SUPERADMIN-API-KEY-12345")

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for case-mismatched API key")
	})

	t.Run("Whitespace in API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)
		req.Header.Set(constvars.HeaderAPIKey, " "+testAPIKey+" ")

		rr := httptest.NewRecorder()
		handler := middlewares.RequireAPIKey(testHandler)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for API key with whitespace")
	})

	t.Run("Unconfigured server key rejects everything", func(t *testing.T) {
		unconfigured := &Middlewares{
			Log:            logger,
			InternalConfig: &config.InternalConfig{},
		}
		req := httptest.NewRequest("GET", "/api/v1/doctors/D1/compensation", nil)
		req.Header.Set(constvars.HeaderAPIKey, "anything")

		rr := httptest.NewRecorder()
		unconfigured.RequireAPIKey(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized when no key is configured")
	})
}
