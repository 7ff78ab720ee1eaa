package middleware

import (
	"net/http"
)

// AdminHeader is the request header carrying the shared admin secret.
const AdminHeader = "x-admin-password"

// AdminMiddleware validates the shared admin secret from the
// x-admin-password header. It compares the header value with the configured
// password; an empty configured password rejects every request, so a server
// started without one has no working admin surface. The check runs before
// the wrapped handler, so a rejected request produces no side effects.
func AdminMiddleware(adminPassword string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminHeader)

			if adminPassword == "" || provided != adminPassword {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
