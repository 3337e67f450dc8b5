package middlewares

import (
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler turns a panicking handler into a 500 response.
func (m *Middlewares) ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = errors.New(fmt.Sprint(rec))
			}

			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			m.Log.Error("Recovered from panic",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
				zap.Stack("stacktrace"),
			)

			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
		}()
		next.ServeHTTP(w, r)
	})
}
