package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/review"
	"github.com/vytor/flashdeck/internal/session"
)

// StalePolicy decides what happens when a review pass refers to a card that
// is gone from its deck.
type StalePolicy string

const (
	// StaleSkip moves the cursor past the missing card.
	StaleSkip StalePolicy = "skip"
	// StaleAbort discards the pass; the next request starts a new one.
	StaleAbort StalePolicy = "abort"
)

// ReviewView is what the reviewer sees: the card at the cursor and the
// responses it accepts. Card is nil once the pass is finished.
type ReviewView struct {
	DeckID   int64                `json:"deck_id"`
	Card     *models.Card         `json:"card"`
	Options  []flashcard.Response `json:"options"`
	Progress review.Progress      `json:"progress"`
	Finished bool                 `json:"finished"`
}

// GradeResult is the graded card and the view of the next one.
type GradeResult struct {
	Graded models.Card `json:"graded"`
	Next   *ReviewView `json:"next"`
}

// ReviewService drives a review pass over one deck per browser session.
type ReviewService interface {
	Current(ctx context.Context, sessionKey string, profileID, deckID int64) (*ReviewView, error)
	Grade(ctx context.Context, sessionKey string, profileID, deckID, cardID int64, token string) (*GradeResult, error)
	Restart(ctx context.Context, sessionKey string, profileID, deckID int64) error
}

type reviewService struct {
	deckRepo  repository.DeckRepository
	cardRepo  repository.CardRepository
	sessions  session.Store
	sequencer *review.Sequencer
	scheduler *flashcard.Scheduler
	policy    StalePolicy
	nower     Nower
}

// ReviewConfig collects the collaborators of a ReviewService. Zero fields get
// defaults: the default scheduler, a time-seeded sequencer, StaleSkip and the
// wall clock.
type ReviewConfig struct {
	Decks     repository.DeckRepository
	Cards     repository.CardRepository
	Sessions  session.Store
	Sequencer *review.Sequencer
	Scheduler *flashcard.Scheduler
	Policy    StalePolicy
	Nower     Nower
}

// NewReviewService creates a new ReviewService
func NewReviewService(cfg ReviewConfig) ReviewService {
	s := &reviewService{
		deckRepo:  cfg.Decks,
		cardRepo:  cfg.Cards,
		sessions:  cfg.Sessions,
		sequencer: cfg.Sequencer,
		scheduler: cfg.Scheduler,
		policy:    cfg.Policy,
		nower:     cfg.Nower,
	}
	if s.sequencer == nil {
		s.sequencer = review.NewSequencer(nil)
	}
	if s.scheduler == nil {
		s.scheduler = flashcard.Default()
	}
	if s.policy != StaleAbort {
		s.policy = StaleSkip
	}
	if s.nower == nil {
		s.nower = RealNower{}
	}
	return s
}

func (s *reviewService) Current(ctx context.Context, sessionKey string, profileID, deckID int64) (*ReviewView, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("loading current review card")

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return nil, err
	}
	cards, err := s.cards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	sess, _, _ := s.sequencer.Open(deckID, existing, models.CardIDs(cards))
	if sess != existing {
		log.Info("started review pass over %d cards", len(sess.Order))
	}
	return s.present(ctx, sessionKey, sess, cards)
}

func (s *reviewService) Grade(ctx context.Context, sessionKey string, profileID, deckID, cardID int64, token string) (*GradeResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"deck_id": deckID, "card_id": cardID})
	log.Debug("grading card: response=%s", token)

	response, err := flashcard.ParseResponse(token)
	if err != nil {
		log.Debug("rejected response token: %v", err)
		return nil, errors.FromDomain(err)
	}
	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return nil, err
	}

	sess, err := s.load(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.DeckID != deckID {
		return nil, errors.FromDomain(fmt.Errorf("%w: no review pass open for deck %d", review.ErrStaleCardReference, deckID))
	}
	if err := review.Locate(sess, cardID); err != nil {
		return nil, s.stale(ctx, sessionKey, sess, err)
	}

	cards, err := s.cards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range cards {
		if cards[i].ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, s.stale(ctx, sessionKey, sess, fmt.Errorf("%w: card %d was removed from deck %d", review.ErrStaleCardReference, cardID, deckID))
	}

	graded, err := s.scheduler.Grade(cards[idx], response)
	if err != nil {
		log.Debug("response not accepted for status %s: %v", cards[idx].Status, err)
		return nil, errors.FromDomain(err)
	}
	graded.LastReviewed = s.nower.Now()

	if err := s.cardRepo.ApplyReview(ctx, graded, string(response)); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, s.stale(ctx, sessionKey, sess, fmt.Errorf("%w: card %d was removed while grading", review.ErrStaleCardReference, cardID))
		}
		log.Error("failed to persist review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("card graded: %s -> %s, step=%d, ease=%.2f", cards[idx].Status, graded.Status, graded.Step, graded.Ease)

	cards[idx] = graded
	next, err := s.present(ctx, sessionKey, review.Advance(sess), cards)
	if err != nil {
		return nil, err
	}
	return &GradeResult{Graded: graded, Next: next}, nil
}

func (s *reviewService) Restart(ctx context.Context, sessionKey string, profileID, deckID int64) error {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("restarting review pass")

	if _, err := ownedDeck(ctx, s.deckRepo, profileID, deckID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionKey); err != nil {
		log.Error("failed to drop review session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *reviewService) cards(ctx context.Context, deckID int64) ([]models.Card, error) {
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *reviewService) load(ctx context.Context, key string) (*review.Session, error) {
	sess, ok, err := s.sessions.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load review session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !ok {
		return nil, nil
	}
	return sess, nil
}

func (s *reviewService) save(ctx context.Context, key string, sess *review.Session) error {
	if err := s.sessions.Set(ctx, key, sess); err != nil {
		logger.FromContext(ctx).Error("failed to store review session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// present resolves the card at the cursor, applying the stale policy to ids
// that no longer exist, stores the resulting session and builds the view.
func (s *reviewService) present(ctx context.Context, key string, sess *review.Session, cards []models.Card) (*ReviewView, error) {
	log := logger.FromContext(ctx)
	for {
		card, err := review.Resolve(sess, cards)
		if err == nil {
			if err := s.save(ctx, key, sess); err != nil {
				return nil, err
			}
			view := &ReviewView{DeckID: sess.DeckID, Card: card, Progress: sess.Progress(), Finished: card == nil}
			if card != nil {
				view.Options = s.scheduler.Options(card.Status)
			}
			return view, nil
		}
		if s.policy == StaleAbort {
			return nil, s.stale(ctx, key, sess, err)
		}
		log.Warn("skipping stale card in review pass: %v", err)
		sess = review.Advance(sess)
	}
}

// stale applies the stale policy to sess and returns the error for the
// caller: under StaleSkip the cursor moves on, under StaleAbort the pass is
// dropped.
func (s *reviewService) stale(ctx context.Context, key string, sess *review.Session, cause error) error {
	log := logger.FromContext(ctx)
	switch s.policy {
	case StaleAbort:
		log.Warn("aborting review pass: %v", cause)
		if err := s.sessions.Delete(ctx, key); err != nil {
			log.Error("failed to drop review session: %v", err)
			return errors.NewInternalError(err)
		}
	default:
		log.Warn("skipping stale card: %v", cause)
		if err := s.save(ctx, key, review.Advance(sess)); err != nil {
			return err
		}
	}
	return errors.FromDomain(cause)
}
