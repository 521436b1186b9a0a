package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the ID of a request, generated unless the client
// provides one.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDMiddleware tags each request with an ID, echoed in the response
// header and available through GetRequestID.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := req.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(req.Context(), requestIDKey{}, id)
			inner.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// GetRequestID returns the ID assigned to the request by RequestIDMiddleware.
func GetRequestID(req *http.Request) string {
	id, _ := req.Context().Value(requestIDKey{}).(string)
	return id
}
