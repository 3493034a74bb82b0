package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

const day = 24 * time.Hour

func dur(d time.Duration) *time.Duration { return &d }

func reviewCard(interval time.Duration, ease float64) models.Card {
	return models.Card{
		ID:       7,
		Status:   models.StatusReview,
		Interval: dur(interval),
		Ease:     ease,
		Step:     2,
	}
}

func TestNewCard_InitialState(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	card := models.NewCard(1, "perro", "dog", now)

	assert.Equal(t, models.StatusLearning, card.Status)
	assert.Equal(t, 0, card.Step)
	assert.Nil(t, card.Interval)
	assert.Equal(t, 2.5, card.Ease)
	assert.Equal(t, now, card.LastReviewed)
	assert.Equal(t, now, card.DueAt())
}

func TestGrade_LearningLadder(t *testing.T) {
	s := flashcard.Default()
	card := models.NewCard(1, "gato", "cat", time.Now())

	step1, err := s.Grade(card, flashcard.Good)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, step1.Status)
	assert.Equal(t, 1, step1.Step)
	require.NotNil(t, step1.Interval)
	assert.Equal(t, 10*time.Minute, *step1.Interval)

	graduated, err := s.Grade(step1, flashcard.Good)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, graduated.Status)
	assert.Equal(t, s.MaxStep(), graduated.Step)
	require.NotNil(t, graduated.Interval)
	assert.Equal(t, day, *graduated.Interval)
	assert.Equal(t, 2.5, graduated.Ease)
}

func TestGrade_LearningHardRepeatsRung(t *testing.T) {
	card := models.NewCard(1, "casa", "house", time.Now())

	updated, err := flashcard.Default().Grade(card, flashcard.Hard)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, updated.Status)
	assert.Equal(t, 0, updated.Step)
	require.NotNil(t, updated.Interval)
	assert.Equal(t, time.Minute, *updated.Interval)
}

func TestGrade_LearningAgainResetsLadder(t *testing.T) {
	card := models.NewCard(1, "libro", "book", time.Now())
	card.Step = 1
	card.Interval = dur(10 * time.Minute)

	updated, err := flashcard.Default().Grade(card, flashcard.Again)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, updated.Status)
	assert.Equal(t, 0, updated.Step)
	assert.Nil(t, updated.Interval)
	assert.Equal(t, 2.5, updated.Ease)
}

func TestGrade_LearningEasyGraduatesImmediately(t *testing.T) {
	card := models.NewCard(1, "agua", "water", time.Now())

	updated, err := flashcard.Default().Grade(card, flashcard.Easy)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, updated.Status)
	assert.Equal(t, 2, updated.Step)
	require.NotNil(t, updated.Interval)
	assert.Equal(t, 4*day, *updated.Interval)
	assert.InDelta(t, 2.65, updated.Ease, 1e-9)
}

func TestGrade_ReviewEasyGrowsByEase(t *testing.T) {
	card := reviewCard(day, 2.5)

	updated, err := flashcard.Default().Grade(card, flashcard.Easy)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, updated.Status)
	require.NotNil(t, updated.Interval)
	assert.Equal(t, 280800*time.Second, *updated.Interval)
	assert.Greater(t, *updated.Interval, *card.Interval)
	assert.InDelta(t, 2.65, updated.Ease, 1e-9)
}

func TestGrade_ReviewAgainDemotes(t *testing.T) {
	card := reviewCard(day, 2.5)

	updated, err := flashcard.Default().Grade(card, flashcard.Again)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, updated.Status)
	assert.Equal(t, 0, updated.Step)
	assert.Nil(t, updated.Interval)
	assert.InDelta(t, 2.3, updated.Ease, 1e-9)
}

func TestGrade_IntervalCalculation(t *testing.T) {
	tests := []struct {
		name           string
		card           models.Card
		response       flashcard.Response
		expectedStatus models.CardStatus
		expected       time.Duration
	}{
		{
			name:           "review good multiplies by ease",
			card:           reviewCard(day, 2.5),
			response:       flashcard.Good,
			expectedStatus: models.StatusReview,
			expected:       60 * time.Hour,
		},
		{
			name:           "review hard grows slowly",
			card:           reviewCard(day, 2.5),
			response:       flashcard.Hard,
			expectedStatus: models.StatusReview,
			expected:       103680 * time.Second,
		},
		{
			name:           "review good past the mastery floor promotes",
			card:           reviewCard(10*day, 2.5),
			response:       flashcard.Good,
			expectedStatus: models.StatusMastered,
			expected:       25 * day,
		},
		{
			name: "review without interval uses graduating interval",
			card: models.Card{
				Status: models.StatusReview,
				Ease:   2.5,
				Step:   2,
			},
			response:       flashcard.Good,
			expectedStatus: models.StatusReview,
			expected:       60 * time.Hour,
		},
		{
			name: "mastered hard halves and demotes to review",
			card: models.Card{
				Status:   models.StatusMastered,
				Interval: dur(30 * day),
				Ease:     2.5,
				Step:     2,
			},
			response:       flashcard.Hard,
			expectedStatus: models.StatusReview,
			expected:       15 * day,
		},
		{
			name: "mastered good keeps the mastery floor",
			card: models.Card{
				Status:   models.StatusMastered,
				Interval: dur(5 * day),
				Ease:     2.5,
				Step:     2,
			},
			response:       flashcard.Good,
			expectedStatus: models.StatusMastered,
			expected:       21 * day,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := flashcard.Default().Grade(tt.card, tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, updated.Status)
			require.NotNil(t, updated.Interval)
			assert.Equal(t, tt.expected, *updated.Interval)
		})
	}
}

func TestGrade_MasteredAgainReturnsToLearning(t *testing.T) {
	card := models.Card{
		Status:   models.StatusMastered,
		Interval: dur(60 * day),
		Ease:     2.8,
		Step:     2,
	}

	updated, err := flashcard.Default().Grade(card, flashcard.Again)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, updated.Status)
	assert.Equal(t, 0, updated.Step)
	assert.Nil(t, updated.Interval)
}

func TestGrade_MinEase(t *testing.T) {
	card := reviewCard(10*day, 1.4)
	s := flashcard.Default()

	for i := 0; i < 10; i++ {
		var err error
		card, err = s.Grade(card, flashcard.Again)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.Ease, 1.3, "ease should not drop below 1.3")
		card.Status = models.StatusReview
		card.Interval = dur(day)
	}
}

func TestGrade_InvalidResponseLeavesCardUnchanged(t *testing.T) {
	card := reviewCard(3*day, 2.2)
	before := card
	beforeInterval := *card.Interval

	for _, token := range []flashcard.Response{"", "great", "AGAIN", "5"} {
		updated, err := flashcard.Default().Grade(card, token)
		require.Error(t, err)
		assert.ErrorIs(t, err, flashcard.ErrInvalidResponse)
		assert.Equal(t, before, updated)
	}
	assert.Equal(t, before, card)
	assert.Equal(t, beforeInterval, *card.Interval)
}

func TestGrade_UnknownStatusIsRejected(t *testing.T) {
	card := models.Card{Status: "suspended", Ease: 2.5}

	_, err := flashcard.Default().Grade(card, flashcard.Good)
	assert.ErrorIs(t, err, flashcard.ErrInvalidResponse)
}

func TestGrade_TotalAndBounded(t *testing.T) {
	s := flashcard.Default()
	statuses := []models.CardStatus{models.StatusLearning, models.StatusReview, models.StatusMastered}
	intervals := []*time.Duration{nil, dur(0), dur(time.Minute), dur(day), dur(400 * day), dur(36500 * day)}
	eases := []float64{1.3, 2.5, 5.0}

	for _, status := range statuses {
		for _, r := range s.Options(status) {
			for _, interval := range intervals {
				for _, ease := range eases {
					for step := 0; step <= s.MaxStep(); step++ {
						card := models.Card{Status: status, Interval: interval, Ease: ease, Step: step}

						first, err := s.Grade(card, r)
						require.NoError(t, err)
						second, err := s.Grade(card, r)
						require.NoError(t, err)
						assert.Equal(t, first, second, "grading must be deterministic")

						if first.Interval != nil {
							assert.GreaterOrEqual(t, *first.Interval, time.Duration(0))
						}
						assert.Greater(t, first.Ease, 0.0)
						assert.GreaterOrEqual(t, first.Step, 0)
						assert.LessOrEqual(t, first.Step, s.MaxStep())
						assert.True(t, first.Status.Valid())
					}
				}
			}
		}
	}
}

func TestGrade_DoesNotStampLastReviewed(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	card := models.NewCard(1, "sol", "sun", created)

	updated, err := flashcard.Default().Grade(card, flashcard.Good)
	require.NoError(t, err)
	assert.Equal(t, created, updated.LastReviewed)
}

func TestGrade_EmptyLadderGraduatesOnGood(t *testing.T) {
	s := flashcard.New(flashcard.WithLearningSteps())
	card := models.NewCard(1, "luna", "moon", time.Now())

	updated, err := s.Grade(card, flashcard.Good)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, updated.Status)
	assert.Equal(t, 0, updated.Step)
	require.NotNil(t, updated.Interval)
	assert.Equal(t, day, *updated.Interval)
}

func TestOptions(t *testing.T) {
	s := flashcard.Default()
	expected := []flashcard.Response{flashcard.Again, flashcard.Hard, flashcard.Good, flashcard.Easy}

	assert.Equal(t, expected, s.Options(models.StatusLearning))
	assert.Equal(t, expected, s.Options(models.StatusReview))
	assert.Equal(t, expected, s.Options(models.StatusMastered))
	assert.Nil(t, s.Options("bogus"))
}

func TestParseResponse(t *testing.T) {
	r, err := flashcard.ParseResponse("  GOOD ")
	require.NoError(t, err)
	assert.Equal(t, flashcard.Good, r)

	_, err = flashcard.ParseResponse("meh")
	assert.ErrorIs(t, err, flashcard.ErrInvalidResponse)
}
