package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.CardRepository
	deckID int64
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	profileID := testutil.SeedProfile(s.T(), s.db, "ana")
	s.deckID = testutil.SeedDeck(s.T(), s.db, profileID, "spanish")
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	card := models.NewCard(s.deckID, "perro", "dog", testutil.FixedNow)

	id, err := s.repo.Insert(ctx, card)
	s.Require().NoError(err)
	s.Positive(id)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("perro", got.Front)
	s.Equal("dog", got.Back)
	s.Equal(models.StatusLearning, got.Status)
	s.Nil(got.Interval)
	s.Equal(models.DefaultEase, got.Ease)
	s.Equal(0, got.Step)
	s.True(testutil.FixedNow.Equal(got.LastReviewed))
}

func (s *CardRepositorySuite) TestGetMissing() {
	got, err := s.repo.Get(context.Background(), 999)
	s.NoError(err)
	s.Nil(got)
}

func (s *CardRepositorySuite) TestInsertBatchAndList() {
	ctx := context.Background()
	ids, err := s.repo.InsertBatch(ctx, testutil.Cards(s.deckID, 3))
	s.Require().NoError(err)
	s.Len(ids, 3)

	cards, err := s.repo.ListByDeck(ctx, s.deckID)
	s.Require().NoError(err)
	s.Equal(ids, models.CardIDs(cards))
	s.Equal("wa", cards[0].Front)
}

func (s *CardRepositorySuite) TestInsertBatchRollsBack() {
	ctx := context.Background()
	cards := testutil.Cards(s.deckID, 2)
	cards[1].DeckID = 4242 // violates the deck foreign key

	_, err := s.repo.InsertBatch(ctx, cards)
	s.Error(err)

	got, err := s.repo.ListByDeck(ctx, s.deckID)
	s.NoError(err)
	s.Empty(got)
}

func (s *CardRepositorySuite) TestApplyReviewPersistsScheduleAndHistory() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.NewCard(s.deckID, "gato", "cat", testutil.FixedNow))
	s.Require().NoError(err)

	interval := 24 * time.Hour
	reviewedAt := testutil.FixedNow.Add(10 * time.Minute)
	graded := models.Card{
		ID:           id,
		Status:       models.StatusReview,
		Interval:     &interval,
		Ease:         2.5,
		Step:         2,
		LastReviewed: reviewedAt,
	}
	s.Require().NoError(s.repo.ApplyReview(ctx, graded, "good"))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusReview, got.Status)
	s.Require().NotNil(got.Interval)
	s.Equal(interval, *got.Interval)
	s.Equal(2, got.Step)
	s.True(reviewedAt.Equal(got.LastReviewed))
	s.Equal("gato", got.Front)

	history, err := s.repo.History(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("good", history[0].Response)
	s.True(reviewedAt.Equal(history[0].ReviewedAt))
}

func (s *CardRepositorySuite) TestApplyReviewMissingCard() {
	err := s.repo.ApplyReview(context.Background(), models.Card{ID: 77, Status: models.StatusLearning, Ease: 2.5, LastReviewed: testutil.FixedNow}, "again")
	s.ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestUpdateContentAndDelete() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.NewCard(s.deckID, "casa", "hose", testutil.FixedNow))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateContent(ctx, id, "casa", "house"))
	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("house", got.Back)

	s.Require().NoError(s.repo.Delete(ctx, id))
	got, err = s.repo.Get(ctx, id)
	s.NoError(err)
	s.Nil(got)
}

func (s *CardRepositorySuite) TestDeletingDeckCascades() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, models.NewCard(s.deckID, "sol", "sun", testutil.FixedNow))
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, s.deckID)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.NoError(err)
	s.Nil(got)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
