package repository

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, username string) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, profileID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, id int64, now time.Time) (*models.DeckSummary, error)
}

// CardRepository handles card data access, including the scheduling fields
// written back after each grade.
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	UpdateContent(ctx context.Context, id int64, front, back string) error
	Delete(ctx context.Context, id int64) error
	ApplyReview(ctx context.Context, card models.Card, response string) error
	History(ctx context.Context, cardID int64) ([]models.ReviewHistory, error)
}
