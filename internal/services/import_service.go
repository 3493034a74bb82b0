package services

import (
	"context"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/wiki"
)

// ImportService seeds decks from wiki articles.
type ImportService interface {
	ImportArticle(ctx context.Context, profileID int64, article string) (*models.Deck, error)
}

type importService struct {
	deckRepo repository.DeckRepository
	queue    jobs.JobQueue
	language string
	nower    Nower
}

// NewImportService creates a new ImportService
func NewImportService(deckRepo repository.DeckRepository, queue jobs.JobQueue, language string, nower Nower) ImportService {
	if nower == nil {
		nower = RealNower{}
	}
	return &importService{deckRepo: deckRepo, queue: queue, language: language, nower: nower}
}

// ImportArticle creates an empty deck named after the article and queues the
// job that fills it. article is either a title or an article URL.
func (s *importService) ImportArticle(ctx context.Context, profileID int64, article string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title, err := wiki.TitleFromURL(article)
	if err != nil {
		return nil, errors.NewValidationError("article", err.Error())
	}
	log = log.WithFields(map[string]any{"profile_id": profileID, "title": title})
	log.Info("queueing deck import job")

	deck := models.Deck{ProfileID: profileID, Name: title, SourceTitle: title, Language: s.language}
	id, err := s.deckRepo.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	deck.ID = id
	deck.CreatedAt = s.nower.Now()

	if err := s.queue.EnqueueDeckImport(id, title); err != nil {
		log.Error("failed to enqueue import: %v", err)
		if delErr := s.deckRepo.Delete(ctx, id); delErr != nil {
			log.Warn("failed to remove deck %d after enqueue error: %v", id, delErr)
		}
		return nil, errors.NewInternalError(err)
	}
	return &deck, nil
}
