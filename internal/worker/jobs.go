package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/wiki"
)

// ArticleFetcher returns the HTML extract of a wiki article.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, title string) (string, error)
}

// ImportDeckJob fills an existing deck with the most frequent words of a
// wiki article and their translations.
type ImportDeckJob struct {
	Fetcher    ArticleFetcher
	Translator wiki.Translator
	CardRepo   repository.CardRepository
	DeckID     int64
	Title      string
	TopWords   int
	Now        func() time.Time
}

func (j *ImportDeckJob) Name() string { return "import_deck" }

func (j *ImportDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": j.DeckID,
		"title":   j.Title,
	})
	log.Info("starting deck import")

	extract, err := j.Fetcher.FetchArticle(ctx, j.Title)
	if err != nil {
		log.Error("failed to fetch article: %v", err)
		return err
	}

	n := j.TopWords
	if n <= 0 {
		n = 100
	}
	ranked := wiki.Vocabulary(extract, n)
	if len(ranked) == 0 {
		log.Warn("article has no usable vocabulary")
		return nil
	}
	log.Debug("ranked %d words, top=%q (%d)", len(ranked), ranked[0].Word, ranked[0].Count)

	words := make([]string, len(ranked))
	for i, wc := range ranked {
		words[i] = wc.Word
	}

	translator := j.Translator
	if translator == nil {
		translator = wiki.Identity{}
	}
	translations, err := translator.Translate(ctx, words)
	if err != nil {
		log.Error("failed to translate words: %v", err)
		return fmt.Errorf("translate %d words: %w", len(words), err)
	}
	if len(translations) != len(words) {
		return fmt.Errorf("translator returned %d results for %d words", len(translations), len(words))
	}

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	stamp := now()
	cards := make([]models.Card, len(words))
	for i, w := range words {
		cards[i] = models.NewCard(j.DeckID, w, translations[i], stamp)
	}

	if ctx.Err() != nil {
		log.Warn("import cancelled before insert: %v", ctx.Err())
		return ctx.Err()
	}
	ids, err := j.CardRepo.InsertBatch(ctx, cards)
	if err != nil {
		log.Error("failed to insert cards: %v", err)
		return err
	}
	log.Info("deck import finished: %d cards", len(ids))
	return nil
}
