package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"blog-service/handlers"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/httpserver"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// wrap decorates a route handler with a request id, CORS headers and request metrics.
// Route details and the caller are put in the context by httpserver.
func wrap(route Route, allowedOrigin string) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		setCORSHeaders(w, r, allowedOrigin)

		ctx = handlers.WithRequestID(ctx, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		route.Handler(ctx, rec, r)

		requestsTotal.WithLabelValues(route.Name, route.Method, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(route.Name, route.Method).Observe(time.Since(start).Seconds())
	})
}

// setCORSHeaders allows cross-origin access from exactly one origin
func setCORSHeaders(w http.ResponseWriter, r *http.Request, allowedOrigin string) {
	w.Header().Add("Vary", "Origin")
	if r.Header.Get("Origin") != allowedOrigin {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+handlers.CallerHeader+", "+requestIDHeader)
	w.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
}

// preflight answers CORS OPTIONS requests; headers are set by wrap
func preflight(allowedOrigin string) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != allowedOrigin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
