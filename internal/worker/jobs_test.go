package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"github.com/vytor/flashdeck/internal/worker"
)

const article = `<p>El río Manzanares<sup>[1]</sup> cruza Madrid. Madrid tiene un río y un puente.</p>`

func TestImportDeckJobInsertsTranslatedCards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	fetcher := new(mocks.MockArticleFetcher)
	translator := new(mocks.MockTranslator)
	cards := new(mocks.MockCardRepository)

	fetcher.On("FetchArticle", mock.Anything, "Madrid").Return(article, nil)
	translator.On("Translate", mock.Anything, []string{"madrid", "río"}).Return([]string{"Madrid", "river"}, nil)
	cards.On("InsertBatch", mock.Anything, []models.Card{
		models.NewCard(9, "madrid", "Madrid", now),
		models.NewCard(9, "río", "river", now),
	}).Return([]int64{1, 2}, nil)

	job := &worker.ImportDeckJob{
		Fetcher:    fetcher,
		Translator: translator,
		CardRepo:   cards,
		DeckID:     9,
		Title:      "Madrid",
		TopWords:   2,
		Now:        func() time.Time { return now },
	}
	require.NoError(t, job.Run(ctx))
	assert.Equal(t, "import_deck", job.Name())

	fetcher.AssertExpectations(t)
	translator.AssertExpectations(t)
	cards.AssertExpectations(t)
}

func TestImportDeckJobFetchError(t *testing.T) {
	fetcher := new(mocks.MockArticleFetcher)
	cards := new(mocks.MockCardRepository)
	fetcher.On("FetchArticle", mock.Anything, "Nope").Return("", errors.New("not found"))

	job := &worker.ImportDeckJob{Fetcher: fetcher, CardRepo: cards, DeckID: 1, Title: "Nope"}
	assert.Error(t, job.Run(context.Background()))
	cards.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestImportDeckJobTranslateError(t *testing.T) {
	fetcher := new(mocks.MockArticleFetcher)
	translator := new(mocks.MockTranslator)
	cards := new(mocks.MockCardRepository)
	fetcher.On("FetchArticle", mock.Anything, "Madrid").Return(article, nil)
	translator.On("Translate", mock.Anything, mock.Anything).Return(nil, errors.New("offline"))

	job := &worker.ImportDeckJob{Fetcher: fetcher, Translator: translator, CardRepo: cards, DeckID: 1, Title: "Madrid"}
	assert.Error(t, job.Run(context.Background()))
	cards.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestImportDeckJobDefaultsToIdentity(t *testing.T) {
	fetcher := new(mocks.MockArticleFetcher)
	cards := new(mocks.MockCardRepository)
	fetcher.On("FetchArticle", mock.Anything, "Madrid").Return(article, nil)
	cards.On("InsertBatch", mock.Anything, mock.MatchedBy(func(cs []models.Card) bool {
		for _, c := range cs {
			if c.Front != c.Back || c.DeckID != 3 || c.Status != models.StatusLearning {
				return false
			}
		}
		return len(cs) == 5
	})).Return([]int64{1, 2, 3, 4, 5}, nil)

	job := &worker.ImportDeckJob{Fetcher: fetcher, CardRepo: cards, DeckID: 3, Title: "Madrid"}
	require.NoError(t, job.Run(context.Background()))
	cards.AssertExpectations(t)
}

func TestImportDeckJobEmptyArticle(t *testing.T) {
	fetcher := new(mocks.MockArticleFetcher)
	cards := new(mocks.MockCardRepository)
	fetcher.On("FetchArticle", mock.Anything, "Vacío").Return("<p>el de la y</p>", nil)

	job := &worker.ImportDeckJob{Fetcher: fetcher, CardRepo: cards, DeckID: 1, Title: "Vacío"}
	assert.NoError(t, job.Run(context.Background()))
	cards.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}
