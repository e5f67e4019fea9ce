package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
)

// Recover turns a panic anywhere below it into a 500 JSON response and logs
// the stack. http.ErrAbortHandler is re-raised so the server aborts the
// connection as usual.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.Printf("[HTTP] Panic recovered on %s %s (req_id=%s): %v\n%s",
				r.Method, r.URL.Path, GetRequestID(r.Context()), rec, debug.Stack())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Internal server error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
