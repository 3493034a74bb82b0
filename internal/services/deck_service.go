package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// DeckService handles deck and card management. Every call is scoped to the
// profile that owns the deck.
type DeckService interface {
	ListDecks(ctx context.Context, profileID int64) ([]models.DeckSummary, error)
	CreateDeck(ctx context.Context, profileID int64, name string) (*models.Deck, error)
	GetDeck(ctx context.Context, profileID, deckID int64) (*models.DeckSummary, error)
	RenameDeck(ctx context.Context, profileID, deckID int64, name string) error
	DeleteDeck(ctx context.Context, profileID, deckID int64) error

	ListCards(ctx context.Context, profileID, deckID int64) ([]models.Card, error)
	AddCard(ctx context.Context, profileID, deckID int64, front, back string) (*models.Card, error)
	UpdateCard(ctx context.Context, profileID, deckID, cardID int64, front, back string) error
	DeleteCard(ctx context.Context, profileID, deckID, cardID int64) error
}

type deckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	nower    Nower
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository, nower Nower) DeckService {
	if nower == nil {
		nower = RealNower{}
	}
	return &deckService{deckRepo: deckRepo, cardRepo: cardRepo, nower: nower}
}

func (s *deckService) ListDecks(ctx context.Context, profileID int64) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: profile_id=%d", profileID)

	decks, err := s.deckRepo.List(ctx, profileID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.nower.Now()
	summaries := make([]models.DeckSummary, 0, len(decks))
	for _, d := range decks {
		sum, err := s.deckRepo.Summary(ctx, d.ID, now)
		if err != nil {
			log.Error("failed to summarize deck %d: %v", d.ID, err)
			return nil, errors.NewInternalError(err)
		}
		if sum == nil {
			// deleted between List and Summary
			continue
		}
		summaries = append(summaries, *sum)
	}
	return summaries, nil
}

func (s *deckService) CreateDeck(ctx context.Context, profileID int64, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating deck: profile_id=%d, name=%s", profileID, name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	deck := models.Deck{ProfileID: profileID, Name: name}
	id, err := s.deckRepo.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	deck.ID = id
	deck.CreatedAt = s.nower.Now()
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, profileID, deckID int64) (*models.DeckSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return nil, err
	}
	sum, err := s.deckRepo.Summary(ctx, deckID, s.nower.Now())
	if err != nil {
		log.Error("failed to summarize deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sum == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return sum, nil
}

func (s *deckService) RenameDeck(ctx context.Context, profileID, deckID int64, name string) error {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("renaming deck: deck_id=%d, name=%s", deckID, name)

	if name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return err
	}
	if err := s.deckRepo.Rename(ctx, deckID, name); err != nil {
		log.Error("failed to rename deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) DeleteDeck(ctx context.Context, profileID, deckID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return err
	}
	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) ListCards(ctx context.Context, profileID, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return nil, err
	}
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func validateCardContent(front, back string) (string, string, error) {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" {
		return "", "", errors.NewValidationError("front", "cannot be empty")
	}
	if back == "" {
		return "", "", errors.NewValidationError("back", "cannot be empty")
	}
	return front, back, nil
}

func (s *deckService) AddCard(ctx context.Context, profileID, deckID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding card: deck_id=%d", deckID)

	front, back, err := validateCardContent(front, back)
	if err != nil {
		return nil, err
	}
	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return nil, err
	}

	card := models.NewCard(deckID, front, back, s.nower.Now())
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card.ID = id
	return &card, nil
}

// ownedCard loads a card and checks it belongs to deckID.
func (s *deckService) ownedCard(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load card %d: %v", cardID, err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil || card.DeckID != deckID {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

// UpdateCard edits the text of a card. Its schedule is kept.
func (s *deckService) UpdateCard(ctx context.Context, profileID, deckID, cardID int64, front, back string) error {
	log := logger.FromContext(ctx)
	log.Debug("updating card: deck_id=%d, card_id=%d", deckID, cardID)

	front, back, err := validateCardContent(front, back)
	if err != nil {
		return err
	}
	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return err
	}
	if _, err := s.ownedCard(ctx, deckID, cardID); err != nil {
		return err
	}
	if err := s.cardRepo.UpdateContent(ctx, cardID, front, back); err != nil {
		log.Error("failed to update card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) DeleteCard(ctx context.Context, profileID, deckID, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: deck_id=%d, card_id=%d", deckID, cardID)

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return err
	}
	if _, err := s.ownedCard(ctx, deckID, cardID); err != nil {
		return err
	}
	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
