package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical platform identifiers. These are stored verbatim in
// Game.Platforms and mirrored in the games collection schema.
const (
	PlatformPC          = "PC"
	PlatformPlayStation = "PlayStation"
	PlatformXbox        = "Xbox"
	PlatformNintendo    = "Nintendo"
	PlatformMobile      = "Mobile"
)

// Platforms is the full set of allowed platform identifiers.
var Platforms = []string{
	PlatformPC,
	PlatformPlayStation,
	PlatformXbox,
	PlatformNintendo,
	PlatformMobile,
}

// DefaultCurrency is used when a price arrives without a currency code.
const DefaultCurrency = "USD"

// Game is a catalog entry as written by create and full-replace requests.
// Reads go through the store as plain documents so projections keep their shape.
type Game struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`

	Title     string   `bson:"title" json:"title" validate:"required,notblank"`
	Platforms []string `bson:"platforms" json:"platforms" validate:"required,min=1,dive,platform"`
	Genre     []string `bson:"genre" json:"genre" validate:"required,min=1,dive,notblank"`
	Developer string   `bson:"developer" json:"developer" validate:"required,notblank"`
	Publisher string   `bson:"publisher" json:"publisher" validate:"required,notblank"`

	ReleaseDate *Date  `bson:"releaseDate" json:"releaseDate" validate:"required"`
	Description string `bson:"description" json:"description" validate:"required,notblank"`

	CoverImage  string   `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Screenshots []string `bson:"screenshots,omitempty" json:"screenshots,omitempty"`

	SystemRequirements *SystemRequirements `bson:"systemRequirements,omitempty" json:"systemRequirements,omitempty"`

	Price  *Price   `bson:"price" json:"price" validate:"required"`
	Rating *float64 `bson:"rating,omitempty" json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`

	DLC []DLC `bson:"dlc,omitempty" json:"dlc,omitempty" validate:"omitempty,dive"`
}

// Price is the list price of a game.
type Price struct {
	Amount   *Amount `bson:"amount" json:"amount" validate:"required,gte=0"`
	Currency string  `bson:"currency" json:"currency"`
}

// SystemRequirements groups the minimum and recommended hardware profiles.
type SystemRequirements struct {
	Minimum     *RequirementProfile `bson:"minimum,omitempty" json:"minimum,omitempty"`
	Recommended *RequirementProfile `bson:"recommended,omitempty" json:"recommended,omitempty"`
}

// RequirementProfile is free text describing one hardware tier.
type RequirementProfile struct {
	OS        string `bson:"os,omitempty" json:"os,omitempty"`
	Processor string `bson:"processor,omitempty" json:"processor,omitempty"`
	Memory    string `bson:"memory,omitempty" json:"memory,omitempty"`
	Graphics  string `bson:"graphics,omitempty" json:"graphics,omitempty"`
	Storage   string `bson:"storage,omitempty" json:"storage,omitempty"`
}

// DLC is downloadable content embedded in its parent game.
type DLC struct {
	Title         string `bson:"title" json:"title" validate:"required,notblank"`
	Description   string `bson:"description" json:"description" validate:"required"`
	ReleaseDate   *Date  `bson:"releaseDate,omitempty" json:"releaseDate,omitempty"`
	ReleaseStatus string `bson:"releaseStatus,omitempty" json:"releaseStatus,omitempty"`
}

// ApplyDefaults fills optional values that have a documented default.
func (g *Game) ApplyDefaults() {
	if g.Price != nil && g.Price.Currency == "" {
		g.Price.Currency = DefaultCurrency
	}
}

// GamePatch is a partial update. Nil fields are left untouched.
type GamePatch struct {
	// ID is accepted so clients can send back a fetched document; it is never written.
	ID *string `json:"_id,omitempty"`

	Title     *string   `json:"title" validate:"omitempty,notblank"`
	Platforms *[]string `json:"platforms" validate:"omitempty,min=1,dive,platform"`
	Genre     *[]string `json:"genre" validate:"omitempty,min=1,dive,notblank"`
	Developer *string   `json:"developer" validate:"omitempty,notblank"`
	Publisher *string   `json:"publisher" validate:"omitempty,notblank"`

	ReleaseDate *Date   `json:"releaseDate"`
	Description *string `json:"description" validate:"omitempty,notblank"`

	CoverImage  *string   `json:"coverImage"`
	Screenshots *[]string `json:"screenshots"`

	SystemRequirements *SystemRequirements `json:"systemRequirements"`

	Price  *Price   `json:"price" validate:"omitempty"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`

	DLC *[]DLC `json:"dlc" validate:"omitempty,dive"`
}

// Set returns the $set document for the fields present in the patch,
// keyed by their stored names.
func (p GamePatch) Set() bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Platforms != nil {
		set["platforms"] = *p.Platforms
	}
	if p.Genre != nil {
		set["genre"] = *p.Genre
	}
	if p.Developer != nil {
		set["developer"] = *p.Developer
	}
	if p.Publisher != nil {
		set["publisher"] = *p.Publisher
	}
	if p.ReleaseDate != nil {
		set["releaseDate"] = *p.ReleaseDate
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.CoverImage != nil {
		set["coverImage"] = *p.CoverImage
	}
	if p.Screenshots != nil {
		set["screenshots"] = *p.Screenshots
	}
	if p.SystemRequirements != nil {
		set["systemRequirements"] = *p.SystemRequirements
	}
	if p.Price != nil {
		price := *p.Price
		if price.Currency == "" {
			price.Currency = DefaultCurrency
		}
		set["price"] = price
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.DLC != nil {
		set["dlc"] = *p.DLC
	}
	return set
}
