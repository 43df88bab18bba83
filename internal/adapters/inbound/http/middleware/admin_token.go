package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"freightflow/internal/adapters/inbound/http/problem"
	apperrors "freightflow/internal/shared_kernel/errors"
)

const HeaderAdminToken = "x-admin-token"

// AdminToken rejects requests whose x-admin-token does not match token. An empty
// token locks the admin surface entirely.
func AdminToken(token string) func(http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(token))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				problem.Write(w, r, apperrors.NewUnauthorized(
					"UNAUTHORIZED",
					"SANDBOX_ADMIN_TOKEN not configured",
					nil,
				))
				return
			}

			provided := []byte(r.Header.Get(HeaderAdminToken))
			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				problem.Write(w, r, apperrors.NewUnauthorized("UNAUTHORIZED", "Invalid admin token", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
