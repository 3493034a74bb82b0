package models

import (
	"encoding/json"
	"time"
)

// CardStatus is the scheduling stage of a card.
type CardStatus string

const (
	StatusLearning CardStatus = "learning"
	StatusReview   CardStatus = "review"
	StatusMastered CardStatus = "mastered"
)

// DefaultEase is the ease multiplier every new card starts with.
const DefaultEase = 2.5

func (s CardStatus) Valid() bool {
	switch s {
	case StatusLearning, StatusReview, StatusMastered:
		return true
	}
	return false
}

// Card is a single term/definition pair with its scheduling metadata.
// Interval is nil while the card has not been scheduled yet.
type Card struct {
	ID           int64          `json:"id"`
	DeckID       int64          `json:"deck_id"`
	Front        string         `json:"front"`
	Back         string         `json:"back"`
	Status       CardStatus     `json:"status"`
	Interval     *time.Duration `json:"-"`
	Ease         float64        `json:"ease"`
	Step         int            `json:"step"`
	LastReviewed time.Time      `json:"last_reviewed"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewCard returns a card in the initial learning state.
func NewCard(deckID int64, front, back string, now time.Time) Card {
	return Card{
		DeckID:       deckID,
		Front:        front,
		Back:         back,
		Status:       StatusLearning,
		Ease:         DefaultEase,
		Step:         0,
		LastReviewed: now,
		CreatedAt:    now,
	}
}

// DueAt is the moment the card becomes due again. Unscheduled cards are due
// as soon as they were last touched.
func (c Card) DueAt() time.Time {
	if c.Interval == nil {
		return c.LastReviewed
	}
	return c.LastReviewed.Add(*c.Interval)
}

// IntervalSeconds returns the interval in whole seconds, or nil.
func (c Card) IntervalSeconds() *int64 {
	if c.Interval == nil {
		return nil
	}
	secs := int64(c.Interval.Seconds())
	return &secs
}

// MarshalJSON adds the interval in seconds and the due time.
func (c Card) MarshalJSON() ([]byte, error) {
	type plain Card
	return json.Marshal(struct {
		plain
		IntervalSeconds *int64    `json:"interval_seconds"`
		DueAt           time.Time `json:"due_at"`
	}{plain(c), c.IntervalSeconds(), c.DueAt()})
}

// CardIDs collects the identifiers of the given cards in order.
func CardIDs(cards []Card) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

type ReviewHistory struct {
	ID         int64     `json:"id"`
	CardID     int64     `json:"card_id"`
	Response   string    `json:"response"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
