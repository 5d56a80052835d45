// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	gamesfeature "github.com/dalemusser/gamecatalog/internal/app/features/games"
	healthfeature "github.com/dalemusser/gamecatalog/internal/app/features/health"
	homefeature "github.com/dalemusser/gamecatalog/internal/app/features/home"
	gamestore "github.com/dalemusser/gamecatalog/internal/app/store/games"
	"github.com/dalemusser/gamecatalog/internal/app/store/queries/gamequeries"
	"github.com/dalemusser/gamecatalog/internal/app/system/telemetry"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Middleware runs in this order: request id,
// panic recovery, CORS, rate limiting (when enabled), then metrics and
// request logging.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	metrics := telemetry.NewMetrics()

	r := chi.NewRouter()

	r.Use(telemetry.RequestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))
	if background.limiter != nil {
		r.Use(background.limiter.Middleware(logger))
	}
	r.Use(metrics.Middleware(logger))

	// Liveness text
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, gamestore.New(deps.MongoDatabase), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Catalog API
	gamesHandler := gamesfeature.NewHandler(deps.MongoDatabase, gamequeries.DefaultAllowlist(), appCfg.MaxPageSize, logger)
	r.Mount("/api/games", gamesfeature.Routes(gamesHandler))

	return r, nil
}
