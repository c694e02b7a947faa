package rest

import (
	"log"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs every request with its status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("[DEBUG] request %s: %s %s %d in %s",
			chiMiddleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			ww.Status(), time.Since(start))
	})
}
