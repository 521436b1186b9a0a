package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module/auth"
)

// AuthorityHeader names the account on whose authority a request is made.
// The header must be set by a trusted gateway which verified the account's
// signature; the API itself does not verify it.
const AuthorityHeader = "X-Drops-Authority"

// AuthorityMiddleware places the caller named by AuthorityHeader into the
// request context. Requests without a well-formed authority are anonymous.
func AuthorityMiddleware() mux.MiddlewareFunc {
	return func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			caller, err := drops.ParseName(req.Header.Get(AuthorityHeader))
			if err == nil {
				req = req.WithContext(auth.WithCaller(req.Context(), caller))
			}
			inner.ServeHTTP(w, req)
		})
	}
}
