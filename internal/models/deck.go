package models

import "time"

type Deck struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Name        string    `json:"name"`
	SourceTitle string    `json:"source_title,omitempty"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckSummary is a deck together with its card counts per status.
type DeckSummary struct {
	Deck
	TotalCards    int `json:"total_cards"`
	LearningCards int `json:"learning_cards"`
	ReviewCards   int `json:"review_cards"`
	MasteredCards int `json:"mastered_cards"`
	DueCards      int `json:"due_cards"`
}
