// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, log level and the like. AppConfig
// carries what is specific to the game catalog: where the catalog lives,
// who may call it from a browser, and how hard a single client may push.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Browser access
	CORSAllowedOrigins []string // "*" allows any origin

	// Per-client rate limiting
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	RateLimitIdle    time.Duration

	// MaxPageSize caps ?limit on GET /api/games.
	MaxPageSize int
}
