package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// CallerHeader optionally names the user making the request.
// The server's auth callback copies it into httpserver.RequestAuth.Client.
const CallerHeader = "X-User-ID"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id for logRequest
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// logRequest logs the request with the specified format
// (timestamp - route - method - path - client - request id - message)
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	auth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if auth != nil && auth.Client != "" {
		logMsg += " - client:" + auth.Client
	}
	if requestID, _ := ctx.Value(requestIDKey{}).(string); requestID != "" {
		logMsg += " - req:" + requestID
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeRaw writes an already-encoded JSON body with status 200
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// pathID parses the {name} path variable as a positive integer id.
// On failure it writes a 400 and returns false.
func pathID(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logRequest(ctx, "error", "Invalid id", zap.String(name, raw))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid "+name))
		return 0, false
	}
	return id, true
}

// callerID reads the optional caller identity resolved by the auth callback
func callerID(ctx context.Context) (int64, bool, error) {
	auth := httpserver.GetRequestAuth(ctx)
	if auth == nil || auth.Client == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(auth.Client, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// cachedJSON returns a cached JSON body. Bodies are stored as strings; []byte is accepted too.
func cachedJSON(c cache.Cache, key string) ([]byte, bool) {
	raw, err := c.Get(key)
	if err != nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}

func internalError(ctx context.Context, w http.ResponseWriter, message string, err error) {
	logRequest(ctx, "error", message, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError(message))
}
