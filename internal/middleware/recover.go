package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/euroffersurv/rewards-api/internal/pkg/response"
)

// Recover catches handler panics, logs the stack and answers 500. A panic
// in one request must not take the server down.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("panic in handler")

				response.InternalError(w)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
