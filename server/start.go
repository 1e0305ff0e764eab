package server

import (
	"context"
	"net/http"
	"os"

	cachepackage "blog-service/cache"
	"blog-service/config"
	"blog-service/database"
	"blog-service/handlers"
	"blog-service/store"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth runs for authCaller routes. It accepts every request and records the
// optional X-User-ID hint as the client; anonymous callers get an empty Client.
func checkAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	return true, httpserver.RequestAuth{
		Type:   authCaller,
		Client: r.Header.Get(handlers.CallerHeader),
	}
}

// InitLogger sets up the shared structured logger
func InitLogger() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
}

// buildRoutes returns the API routes plus /metrics and CORS preflights, all wrapped
func buildRoutes(h Handlers, allowedOrigin string) []Route {
	routes := append(Routes(h), Route{
		Name:     "Metrics",
		Method:   http.MethodGet,
		Path:     "/metrics",
		AuthType: authNone,
		Handler:  metricsHandler(),
	})
	routes = append(routes, preflightRoutes(routes, allowedOrigin)...)

	for i := range routes {
		routes[i].Handler = wrap(routes[i], allowedOrigin)
	}
	return routes
}

func StartServer(cfg *config.Config) {
	InitLogger()

	logger.Info("Starting Blog Service...", zap.String("service", cfg.ServiceName))

	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	cache := cachepackage.InitializeCache(cfg)
	defer cache.Close()

	st := store.New(dbConn)

	if cfg.SeedOnStart {
		if err := database.Seed(context.Background(), st, cfg.BcryptCost); err != nil {
			logger.Error("Seed failed, continuing without sample data", zap.Error(err))
		}
	}

	h := Handlers{
		Health:   handlers.HealthHandler(dbConn, cfg.ServiceName),
		Auth:     handlers.NewAuthHandler(st, cfg.BcryptCost),
		Posts:    handlers.NewPostHandler(st, cache, cfg.PostCacheTTL, cfg.BcryptCost),
		Comments: handlers.NewCommentHandler(st),
	}

	server := httpserver.New(cfg.Port, checkAuth)

	for _, route := range buildRoutes(h, cfg.CORSOrigin) {
		server.Register(httpserver.Route{
			Name:     route.Name,
			Method:   route.Method,
			Path:     route.Path,
			AuthType: route.AuthType,
		}, route.Handler)
	}

	logger.Info("Blog Service started", zap.String("port", cfg.Port), zap.String("cors_origin", cfg.CORSOrigin))
	logger.Info("API endpoints: /auth, /posts, /comments; health: GET /health; metrics: GET /metrics")

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
