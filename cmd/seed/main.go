// Command seed wipes the games collection and reloads the sample catalog.
//
// It reads MONGO_URI and MONGO_DATABASE (falling back to the server's
// GAMECATALOG_* names) from the environment or a .env file.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	gamestore "github.com/dalemusser/gamecatalog/internal/app/store/games"
	"github.com/dalemusser/gamecatalog/internal/app/system/inputval"
	"github.com/dalemusser/gamecatalog/internal/app/system/timeouts"
	"github.com/dalemusser/gamecatalog/internal/domain/models"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

//go:embed games.json
var sampleJSON []byte

const (
	defaultURI      = "mongodb://localhost:27017"
	defaultDatabase = "videogames"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env", zap.Error(err))
	}

	if err := run(context.Background(), logger); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	games, err := sampleGames()
	if err != nil {
		return err
	}

	uri := env(defaultURI, "MONGO_URI", "GAMECATALOG_MONGO_URI")
	dbName := env(defaultDatabase, "MONGO_DATABASE", "GAMECATALOG_MONGO_DATABASE")

	ctx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("gamecatalog-seed"))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	store := gamestore.New(client.Database(dbName))

	deleted, err := store.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete existing games: %w", err)
	}
	logger.Info("deleted existing games", zap.Int64("count", deleted))

	ids, err := store.InsertMany(ctx, games)
	if err != nil {
		return fmt.Errorf("insert sample games: %w", err)
	}
	logger.Info("inserted sample games", zap.Int("count", len(ids)), zap.String("database", dbName))
	return nil
}

// sampleGames decodes the embedded catalog and validates every entry the
// same way POST /api/games would.
func sampleGames() ([]models.Game, error) {
	dec := json.NewDecoder(bytes.NewReader(sampleJSON))
	dec.DisallowUnknownFields()

	var games []models.Game
	if err := dec.Decode(&games); err != nil {
		return nil, fmt.Errorf("decode sample games: %w", err)
	}
	for i, g := range games {
		if err := inputval.Struct(g); err != nil {
			return nil, fmt.Errorf("sample game %d (%q): %w", i, g.Title, err)
		}
	}
	return games, nil
}

// env returns the first non-empty variable among keys, or def.
func env(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}
