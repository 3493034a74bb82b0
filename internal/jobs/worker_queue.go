package jobs

import (
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/wiki"
	"github.com/vytor/flashdeck/internal/worker"
)

var _ worker.ArticleFetcher = (*wiki.Client)(nil)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool *worker.Pool
	cardRepo   repository.CardRepository
	fetcher    worker.ArticleFetcher
	translator wiki.Translator
	topWords   int
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	importPool *worker.Pool,
	cardRepo repository.CardRepository,
	fetcher worker.ArticleFetcher,
	translator wiki.Translator,
	topWords int,
) JobQueue {
	return &WorkerQueue{
		importPool: importPool,
		cardRepo:   cardRepo,
		fetcher:    fetcher,
		translator: translator,
		topWords:   topWords,
	}
}

func (q *WorkerQueue) EnqueueDeckImport(deckID int64, title string) error {
	return q.importPool.Submit(&worker.ImportDeckJob{
		Fetcher:    q.fetcher,
		Translator: q.translator,
		CardRepo:   q.cardRepo,
		DeckID:     deckID,
		Title:      title,
		TopWords:   q.topWords,
	})
}
