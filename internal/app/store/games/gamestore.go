// internal/app/store/games/gamestore.go
package gamestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/gamecatalog/internal/app/system/inputval"
	"github.com/dalemusser/gamecatalog/internal/app/system/paging"
	"github.com/dalemusser/gamecatalog/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the games collection.
const Collection = "games"

// codeDocumentValidationFailure is returned by the server when a write
// violates the collection's $jsonSchema.
const codeDocumentValidationFailure = 121

var (
	ErrNotFound  = errors.New("game not found")
	ErrInvalidID = errors.New("invalid game id")
	ErrDuplicate = errors.New("a game with this id already exists")
)

// Store reads and writes games. Reads return plain documents so that a
// projection comes back with exactly the fields it asked for.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// ParseID converts a hex id from a URL into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// Find returns the games matching filter. It never returns a nil slice.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]bson.M, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindPage returns one page of the games matching filter, in _id order.
func (s *Store) FindPage(ctx context.Context, filter bson.M, p paging.Params) ([]bson.M, error) {
	return s.Find(ctx, filter, p.FindOptions())
}

// Count returns the number of games matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// GetByID returns one game. A nil projection returns the whole document.
func (s *Store) GetByID(ctx context.Context, id string, projection bson.M) (bson.M, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	var doc bson.M
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

// Create inserts g under a fresh id and returns the stored document.
func (s *Store) Create(ctx context.Context, g models.Game) (bson.M, error) {
	g.ID = primitive.NewObjectID()
	g.ApplyDefaults()
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return nil, translate(err)
	}
	return s.GetByID(ctx, g.ID.Hex(), nil)
}

// Replace overwrites every field of the game with g and returns the result.
func (s *Store) Replace(ctx context.Context, id string, g models.Game) (bson.M, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	g.ID = oid
	g.ApplyDefaults()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var doc bson.M
	if err := s.c.FindOneAndReplace(ctx, bson.M{"_id": oid}, g, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

// Update applies set as a $set and returns the updated game.
func (s *Store) Update(ctx context.Context, id string, set bson.M) (bson.M, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, inputval.NewValidationError("No fields to update")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

// Delete removes one game.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll empties the collection and returns how many games were removed.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// InsertMany bulk-inserts games, assigning ids to those without one.
func (s *Store) InsertMany(ctx context.Context, games []models.Game) ([]primitive.ObjectID, error) {
	if len(games) == 0 {
		return nil, nil
	}
	docs := make([]any, len(games))
	ids := make([]primitive.ObjectID, len(games))
	for i := range games {
		g := games[i]
		if g.ID.IsZero() {
			g.ID = primitive.NewObjectID()
		}
		g.ApplyDefaults()
		docs[i] = g
		ids[i] = g.ID
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert games: %w", translate(err))
	}
	return ids, nil
}

// translate maps driver errors onto the store's error vocabulary.
func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case wafflemongo.IsDup(err):
		return ErrDuplicate
	case isDocumentValidationFailure(err):
		return inputval.NewValidationError("Game failed document validation")
	default:
		return err
	}
}

func isDocumentValidationFailure(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure)
}
