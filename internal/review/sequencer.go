// Package review sequences the cards of a deck into a review pass.
//
// A Session is a snapshot of a deck's card ids taken when the pass starts,
// shuffled once, plus a cursor that only moves forward. The same session is
// reused across requests as long as the same deck is being reviewed, so the
// order is stable for the whole pass and every card is shown at most once.
package review

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Session is the traversal state of one review pass over a deck.
type Session struct {
	DeckID int64   `json:"deck_id"`
	Order  []int64 `json:"order"`
	Cursor int     `json:"cursor"`
}

// Current returns the id at the cursor, or false once the pass is finished.
func (s *Session) Current() (int64, bool) {
	if s == nil || s.Cursor < 0 || s.Cursor >= len(s.Order) {
		return 0, false
	}
	return s.Order[s.Cursor], true
}

// Finished reports whether every card of the pass has been visited.
func (s *Session) Finished() bool {
	_, ok := s.Current()
	return !ok
}

// Remaining is the number of cards left, including the current one.
func (s *Session) Remaining() int {
	if s == nil || s.Cursor >= len(s.Order) {
		return 0
	}
	return len(s.Order) - s.Cursor
}

// Contains reports whether id is part of the session's order.
func (s *Session) Contains(id int64) bool {
	if s == nil {
		return false
	}
	for _, v := range s.Order {
		if v == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{
		DeckID: s.DeckID,
		Order:  append([]int64(nil), s.Order...),
		Cursor: s.Cursor,
	}
}

// Progress describes how far a session has advanced.
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

// Progress returns the 1-based position of the current card. A finished
// session reports Position == Total.
func (s *Session) Progress() Progress {
	if s == nil {
		return Progress{}
	}
	pos := s.Cursor + 1
	if pos > len(s.Order) {
		pos = len(s.Order)
	}
	return Progress{Position: pos, Total: len(s.Order)}
}

// Sequencer creates sessions. Its random source is the only state it holds.
type Sequencer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSequencer returns a Sequencer drawing permutations from rng. A nil rng is
// replaced with a time-seeded one.
func NewSequencer(rng *rand.Rand) *Sequencer {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Sequencer{rng: rng}
}

// Open returns the session to use for deckID together with its current card.
// The existing session is reused untouched when it already targets deckID;
// otherwise a new session is started over a fresh permutation of cardIDs.
func (q *Sequencer) Open(deckID int64, existing *Session, cardIDs []int64) (*Session, int64, bool) {
	sess := existing
	if sess == nil || sess.DeckID != deckID {
		sess = q.start(deckID, cardIDs)
	}
	id, ok := sess.Current()
	return sess, id, ok
}

func (q *Sequencer) start(deckID int64, cardIDs []int64) *Session {
	order := append(make([]int64, 0, len(cardIDs)), cardIDs...)

	q.mu.Lock()
	q.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	q.mu.Unlock()

	return &Session{DeckID: deckID, Order: order, Cursor: 0}
}

// Advance moves the cursor forward by one. Advancing a finished session is
// allowed and leaves it finished.
func Advance(s *Session) *Session {
	if s == nil {
		return nil
	}
	next := s.Clone()
	next.Cursor++
	return next
}

// Locate checks that cardID belongs to the session's order.
func Locate(s *Session, cardID int64) error {
	if !s.Contains(cardID) {
		return fmt.Errorf("%w: card %d is not part of this review pass", ErrStaleCardReference, cardID)
	}
	return nil
}

// Resolve looks the current card up in the deck snapshot. It returns nil
// without error once the session is finished, and ErrStaleCardReference when
// the current id no longer exists in cards.
func Resolve(s *Session, cards []models.Card) (*models.Card, error) {
	id, ok := s.Current()
	if !ok {
		return nil, nil
	}
	for i := range cards {
		if cards[i].ID == id {
			c := cards[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: card %d was removed from deck %d", ErrStaleCardReference, id, s.DeckID)
}
