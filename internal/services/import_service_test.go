package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"github.com/vytor/flashdeck/internal/worker"
)

func TestImportArticleQueuesJob(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	queue := new(mocks.MockJobQueue)
	decks.On("Insert", mock.Anything, models.Deck{ProfileID: 1, Name: "País Vasco", SourceTitle: "País Vasco", Language: "es"}).Return(int64(7), nil)
	queue.On("EnqueueDeckImport", int64(7), "País Vasco").Return(nil)

	svc := services.NewImportService(decks, queue, "es", &FakeNower{})
	deck, err := svc.ImportArticle(context.Background(), 1, "https://es.wikipedia.org/wiki/Pa%C3%ADs_Vasco")
	require.NoError(t, err)
	assert.Equal(t, int64(7), deck.ID)
	decks.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestImportArticleRollsBackWhenQueueIsFull(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	queue := new(mocks.MockJobQueue)
	decks.On("Insert", mock.Anything, mock.Anything).Return(int64(7), nil)
	decks.On("Delete", mock.Anything, int64(7)).Return(nil)
	queue.On("EnqueueDeckImport", int64(7), "Madrid").Return(worker.ErrQueueFull)

	_, err := services.NewImportService(decks, queue, "es", nil).ImportArticle(context.Background(), 1, "Madrid")
	assert.Equal(t, apperrors.ErrCodeInternal, appCode(t, err))
	decks.AssertExpectations(t)
}

func TestImportArticleRejectsEmptyReference(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	queue := new(mocks.MockJobQueue)

	_, err := services.NewImportService(decks, queue, "es", nil).ImportArticle(context.Background(), 1, " ")
	assert.Equal(t, apperrors.ErrCodeValidation, appCode(t, err))
	decks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
