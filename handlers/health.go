package handlers

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/httpserver"
)

// HealthHandler reports service liveness and database reachability
func HealthHandler(db *sqlx.DB, service string) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(ctx); err != nil {
			logRequest(ctx, "error", "Database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "service": service})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": service})
	})
}
