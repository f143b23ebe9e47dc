package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"pulsehub-api/pkg/apierror"
)

// Recovery converts handler panics into JSON 500 responses. It sits
// outermost in the chain, so the request ID is read from the response
// header where RequestID already echoed it.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				rid := w.Header().Get("X-Request-ID")
				log.Printf("[Recovery] rid=%s panic on %s %s: %v\n%s", rid, r.Method, r.URL.Path, err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write(apierror.InternalError("internal server error").ToJSON())
			}
		}()

		next.ServeHTTP(w, r)
	})
}
