package auth

import "net/http"

// RequireAdmin rejects requests that fail the gate with deny and never calls
// next for them.
func RequireAdmin(g *Gate, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Check(r); err != nil {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
