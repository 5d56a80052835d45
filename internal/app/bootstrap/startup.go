// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/gamecatalog/internal/app/system/ratelimit"
	"github.com/dalemusser/gamecatalog/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds process-wide helpers started in Startup and stopped in
// Shutdown. WAFFLE runs the hooks sequentially, so no locking is needed.
var background struct {
	limiter *ratelimit.Limiter
	stop    context.CancelFunc
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		t := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("ping", t.Ping),
			zap.Duration("short", t.Short),
			zap.Duration("medium", t.Medium),
			zap.Duration("batch", t.Batch))
	}

	if appCfg.RateLimitEnabled {
		l := ratelimit.New(ratelimit.Config{
			RPS:   appCfg.RateLimitRPS,
			Burst: appCfg.RateLimitBurst,
			Idle:  appCfg.RateLimitIdle,
		})
		// The sweeper outlives Startup's ctx; Shutdown stops it.
		sweepCtx, cancel := context.WithCancel(context.Background())
		go l.Run(sweepCtx)
		background.limiter = l
		background.stop = cancel
		logger.Info("rate limiting enabled",
			zap.Float64("rps", appCfg.RateLimitRPS),
			zap.Int("burst", appCfg.RateLimitBurst))
	}
	return nil
}
