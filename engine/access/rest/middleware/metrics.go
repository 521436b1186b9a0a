package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/droplets-system/epoch/module"
)

// MetricsMiddleware reports the duration and status of each request, labeled
// by route template rather than raw URL to bound label cardinality.
func MetricsMiddleware(restCollector module.RestMetrics) mux.MiddlewareFunc {
	return func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			respWriter := newResponseWriter(w)
			inner.ServeHTTP(respWriter, req)

			route := "unknown"
			if current := mux.CurrentRoute(req); current != nil {
				if name := current.GetName(); name != "" {
					route = name
				} else if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			restCollector.ObserveHTTPRequest(route, req.Method, respWriter.statusCode, time.Since(start))
		})
	}
}
