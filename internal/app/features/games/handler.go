// internal/app/features/games/handler.go
package games

import (
	gamestore "github.com/dalemusser/gamecatalog/internal/app/store/games"
	"github.com/dalemusser/gamecatalog/internal/app/store/queries/gamequeries"
	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /api/games.
type Handler struct {
	Store       *gamestore.Store
	Allowlist   gamequeries.Allowlist
	MaxPageSize int
	Log         *zap.Logger
}

// NewHandler builds a Handler over db. A maxPageSize < 1 means paging.MaxLimit.
func NewHandler(db *mongo.Database, allow gamequeries.Allowlist, maxPageSize int, logger *zap.Logger) *Handler {
	if maxPageSize < 1 {
		maxPageSize = paging.MaxLimit
	}
	return &Handler{
		Store:       gamestore.New(db),
		Allowlist:   allow,
		MaxPageSize: maxPageSize,
		Log:         logger,
	}
}
