package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type Nower interface {
	Now() time.Time
}

type RealNower struct{}

func (RealNower) Now() time.Time {
	return time.Now()
}

// ownedDeck loads a deck and checks it belongs to profileID. Decks of other
// profiles are reported as missing.
func ownedDeck(ctx context.Context, decks repository.DeckRepository, profileID, deckID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := decks.Get(ctx, deckID)
	if err != nil {
		log.Error("failed to load deck %d: %v", deckID, err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.ProfileID != profileID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}
