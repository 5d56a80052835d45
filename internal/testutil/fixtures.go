package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/anandvarma/namegen"
	"github.com/dalemusser/gamecatalog/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var titles = namegen.NewWithPostfixId(
	[]namegen.DictType{namegen.Adjectives, namegen.Colors, namegen.Animals},
	namegen.Numeric,
	4,
)

// GameTitle returns a random, readable game title.
func GameTitle() string {
	return titles.Get()
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewGame returns a valid game with a random title. Callers adjust the
// fields they care about before inserting it.
func NewGame() models.Game {
	amount := models.Amount(29.99)
	rating := 8.0
	release := models.NewDate(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC))
	return models.Game{
		Title:       GameTitle(),
		Platforms:   []string{models.PlatformPC},
		Genre:       []string{"Action"},
		Developer:   "Test Developer",
		Publisher:   "Test Publisher",
		ReleaseDate: &release,
		Description: "A game for testing",
		Price:       &models.Price{Amount: &amount, Currency: models.DefaultCurrency},
		Rating:      &rating,
	}
}

// CreateGame inserts g directly into the games collection, assigning an
// id if it has none, and returns it.
func (f *Fixtures) CreateGame(ctx context.Context, g models.Game) models.Game {
	f.t.Helper()
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	g.ApplyDefaults()
	if _, err := f.db.Collection("games").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create game: %v", err)
	}
	return g
}

// CreateGames inserts n generated games and returns them in insertion order.
func (f *Fixtures) CreateGames(ctx context.Context, n int) []models.Game {
	f.t.Helper()
	out := make([]models.Game, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.CreateGame(ctx, NewGame()))
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Price builds a price in the default currency.
func Price(amount float64) *models.Price {
	a := models.Amount(amount)
	return &models.Price{Amount: &a, Currency: models.DefaultCurrency}
}
