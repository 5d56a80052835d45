// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGames(ctx, db); err != nil {
		problems = append(problems, "games: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 85 || ce.Code == 86) {
		return true
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// existingBySig lists a collection's indexes keyed by their key signature.
func existingBySig(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// reconcile makes one desired index exist with the desired name and
// uniqueness. An index with the same keys but different options is dropped
// and recreated.
func reconcile(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel) error {
	var name string
	var unique *bool
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique = m.Options.Unique
	}
	sig := keySig(m.Keys.(bson.D))
	log := zap.L().With(
		zap.String("collection", coll.Name()),
		zap.String("name", name),
		zap.String("keys", sig),
		zap.Bool("unique", boolVal(unique)))
	start := time.Now()

	ex, found := existingBySig(ctx, coll)[sig]
	if found && boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
		log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
		return nil
	}
	if found {
		log.Info("replacing index with mismatched options", zap.String("existing", ex.Name))
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), name, err)
		}
	}

	created, err := coll.Indexes().CreateOne(ctx, m)
	if err != nil && isOptionsConflictErr(err) && !found {
		// Raced with another creator; retry once against the fresh listing.
		return reconcileAfterConflict(ctx, coll, m, name, sig, unique)
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) && boolVal(unique) {
			return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name)
		}
		log.Warn("index ensure failed", zap.Error(err))
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}
	log.Info("index ensured",
		zap.String("created_name", created),
		zap.Duration("took", time.Since(start)))
	return nil
}

func reconcileAfterConflict(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, name, sig string, unique *bool) error {
	ex, ok := existingBySig(ctx, coll)[sig]
	if !ok {
		return fmt.Errorf("%s(%s): index options conflict", coll.Name(), name)
	}
	if boolVal(ex.Unique) == boolVal(unique) {
		zap.L().Info("reusing existing index (post-conflict)",
			zap.String("collection", coll.Name()),
			zap.String("name", ex.Name))
		return nil
	}
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if err := reconcile(ctx, coll, m); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// GameIndexNames lists the indexes ensureGames maintains.
var GameIndexNames = []string{
	"idx_games_platforms",
	"idx_games_genre",
	"idx_games_rating",
	"idx_games_price_amount",
	"idx_games_title",
	"idx_games_developer",
}

func ensureGames(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("games")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// list filter: platform (multikey) and the /platform/{platform} route
		{
			Keys:    bson.D{{Key: "platforms", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_games_platforms"),
		},
		// list filter and search: genre (multikey)
		{
			Keys:    bson.D{{Key: "genre", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_games_genre"),
		},
		// search: minRating
		{
			Keys:    bson.D{{Key: "rating", Value: 1}},
			Options: options.Index().SetName("idx_games_rating"),
		},
		// search: maxPrice
		{
			Keys:    bson.D{{Key: "price.amount", Value: 1}},
			Options: options.Index().SetName("idx_games_price_amount"),
		},
		// title and developer lookups; anchored prefix regexes can use these
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName("idx_games_title"),
		},
		{
			Keys:    bson.D{{Key: "developer", Value: 1}},
			Options: options.Index().SetName("idx_games_developer"),
		},
	})
}
