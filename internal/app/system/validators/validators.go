// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/gamecatalog/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("games", GamesSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

var number = bson.A{"double", "int", "long", "decimal"}

func requirementProfileSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"os":        bson.M{"bsonType": "string"},
			"processor": bson.M{"bsonType": "string"},
			"memory":    bson.M{"bsonType": "string"},
			"graphics":  bson.M{"bsonType": "string"},
			"storage":   bson.M{"bsonType": "string"},
		},
	}
}

// GamesSchema mirrors the Game model's invariants at the database layer.
func GamesSchema() bson.M {
	platformEnum := bson.A{}
	for _, p := range models.Platforms {
		platformEnum = append(platformEnum, p)
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "platforms", "genre", "developer", "publisher", "releaseDate", "description", "price"},
			"properties": bson.M{
				"title": nonBlank,
				"platforms": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items":    bson.M{"enum": platformEnum},
				},
				"genre": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items":    nonBlank,
				},
				"developer":   nonBlank,
				"publisher":   nonBlank,
				"releaseDate": bson.M{"bsonType": "date"},
				"description": nonBlank,
				"coverImage":  bson.M{"bsonType": "string"},
				"screenshots": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"systemRequirements": bson.M{
					"bsonType": "object",
					"properties": bson.M{
						"minimum":     requirementProfileSchema(),
						"recommended": requirementProfileSchema(),
					},
				},
				"price": bson.M{
					"bsonType": "object",
					"required": bson.A{"amount"},
					"properties": bson.M{
						"amount":   bson.M{"bsonType": number, "minimum": 0},
						"currency": bson.M{"bsonType": "string"},
					},
				},
				"rating": bson.M{"bsonType": number, "minimum": 0, "maximum": 10},
				"dlc": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"title", "description"},
						"properties": bson.M{
							"title":         nonBlank,
							"description":   bson.M{"bsonType": "string"},
							"releaseDate":   bson.M{"bsonType": "date"},
							"releaseStatus": bson.M{"bsonType": "string"},
						},
					},
				},
			},
		},
	}
}
