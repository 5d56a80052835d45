// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/gamecatalog/internal/app/store/queries/gamequeries"
	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the game catalog.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, max_page_size, etc.
//   - Environment variables: GAMECATALOG_MONGO_URI, GAMECATALOG_MAX_PAGE_SIZE, etc.
//   - Command-line flags: --mongo_uri, --max_page_size, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "videogames", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated origins allowed by CORS ('*' for any)"},

	{Name: "rate_limit_enabled", Default: true, Desc: "Enable per-client rate limiting"},
	{Name: "rate_limit_rps", Default: 20, Desc: "Sustained requests per second per client"},
	{Name: "rate_limit_burst", Default: 40, Desc: "Burst size per client"},
	{Name: "rate_limit_idle", Default: "3m", Desc: "Forget clients idle this long (e.g., 3m, 1h)"},

	{Name: "max_page_size", Default: paging.MaxLimit, Desc: "Largest page size GET /api/games will return"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, in order of precedence,
// flags > env (WAFFLE_* for core, GAMECATALOG_* for app) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GAMECATALOG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		CORSAllowedOrigins: gamequeries.SplitList(appValues.String("cors_allowed_origins")),

		RateLimitEnabled: appValues.Bool("rate_limit_enabled"),
		RateLimitRPS:     float64(appValues.Int("rate_limit_rps")),
		RateLimitBurst:   appValues.Int("rate_limit_burst"),
		RateLimitIdle:    appValues.Duration("rate_limit_idle", 3*time.Minute),

		MaxPageSize: appValues.Int("max_page_size"),
	}

	if len(appCfg.CORSAllowedOrigins) == 0 {
		appCfg.CORSAllowedOrigins = []string{"*"}
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked to catch configuration errors early,
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be at least 1, got %d", appCfg.MaxPageSize)
	}
	if appCfg.RateLimitEnabled {
		if appCfg.RateLimitRPS <= 0 {
			return fmt.Errorf("rate_limit_rps must be positive, got %v", appCfg.RateLimitRPS)
		}
		if appCfg.RateLimitBurst < 1 {
			return fmt.Errorf("rate_limit_burst must be at least 1, got %d", appCfg.RateLimitBurst)
		}
	}
	return nil
}
