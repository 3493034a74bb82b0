package review_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/review"
)

func newSequencer() *review.Sequencer {
	return review.NewSequencer(rand.New(rand.NewPCG(42, 7)))
}

func sorted(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestOpen_NewSessionIsPermutation(t *testing.T) {
	ids := []int64{10, 11, 12, 13, 14, 15, 16, 17}

	sess, current, ok := newSequencer().Open(3, nil, ids)
	require.True(t, ok)
	assert.Equal(t, int64(3), sess.DeckID)
	assert.Equal(t, 0, sess.Cursor)
	assert.Equal(t, sorted(ids), sorted(sess.Order))
	assert.Equal(t, sess.Order[0], current)
}

func TestOpen_DoesNotAliasInput(t *testing.T) {
	ids := []int64{1, 2, 3, 4}

	sess, _, _ := newSequencer().Open(1, nil, ids)
	sess.Order[0] = 99
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestOpen_ReusesSessionForSameDeck(t *testing.T) {
	q := newSequencer()
	ids := []int64{1, 2, 3, 4, 5}

	first, firstID, ok := q.Open(9, nil, ids)
	require.True(t, ok)
	second, secondID, ok := q.Open(9, first, ids)
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.Cursor, second.Cursor)
	assert.Equal(t, firstID, secondID)
}

func TestOpen_ReusedSessionIgnoresDeckChanges(t *testing.T) {
	q := newSequencer()

	sess, _, _ := q.Open(9, nil, []int64{1, 2, 3})
	reused, _, _ := q.Open(9, sess, []int64{1, 2, 3, 4, 5})

	assert.Len(t, reused.Order, 3)
	assert.False(t, reused.Contains(4))
}

func TestOpen_DeckSwitchStartsNewSession(t *testing.T) {
	q := newSequencer()

	forB, _, _ := q.Open(2, nil, []int64{100, 101})
	forB = review.Advance(forB)

	ids := []int64{1, 2, 3}
	forA, current, ok := q.Open(1, forB, ids)
	require.True(t, ok)
	assert.Equal(t, int64(1), forA.DeckID)
	assert.Equal(t, 0, forA.Cursor)
	assert.Equal(t, sorted(ids), sorted(forA.Order))
	assert.Equal(t, forA.Order[0], current)
}

func TestOpen_EmptyDeck(t *testing.T) {
	sess, _, ok := newSequencer().Open(5, nil, nil)

	assert.False(t, ok)
	assert.Empty(t, sess.Order)
	assert.True(t, sess.Finished())
	assert.Equal(t, 0, sess.Remaining())
}

func TestAdvance_VisitsEveryCardOnce(t *testing.T) {
	q := newSequencer()
	ids := []int64{4, 8, 15, 16, 23, 42}

	sess, _, _ := q.Open(1, nil, ids)
	seen := map[int64]int{}
	for i := 0; i < len(ids); i++ {
		var id int64
		var ok bool
		sess, id, ok = q.Open(1, sess, ids)
		require.True(t, ok, "card %d should be available", i)
		seen[id]++
		sess = review.Advance(sess)
	}

	_, _, ok := q.Open(1, sess, ids)
	assert.False(t, ok)
	assert.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "card %d should be shown exactly once", id)
	}
}

func TestAdvance_PastEndStaysFinished(t *testing.T) {
	sess := &review.Session{DeckID: 1, Order: []int64{1}}

	sess = review.Advance(review.Advance(review.Advance(sess)))
	assert.Equal(t, 3, sess.Cursor)
	assert.True(t, sess.Finished())
	assert.Equal(t, review.Progress{Position: 1, Total: 1}, sess.Progress())
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	sess := &review.Session{DeckID: 1, Order: []int64{1, 2}}

	next := review.Advance(sess)
	assert.Equal(t, 0, sess.Cursor)
	assert.Equal(t, 1, next.Cursor)
	assert.Nil(t, review.Advance(nil))
}

func TestShuffle_CoversPermutations(t *testing.T) {
	q := newSequencer()
	ids := []int64{1, 2, 3}

	orders := map[[3]int64]bool{}
	for i := 0; i < 200; i++ {
		sess, _, _ := q.Open(int64(i), nil, ids)
		orders[[3]int64{sess.Order[0], sess.Order[1], sess.Order[2]}] = true
	}
	assert.Len(t, orders, 6)
}

func TestLocate(t *testing.T) {
	sess := &review.Session{DeckID: 1, Order: []int64{5, 6}}

	assert.NoError(t, review.Locate(sess, 6))
	assert.ErrorIs(t, review.Locate(sess, 7), review.ErrStaleCardReference)
	assert.ErrorIs(t, review.Locate(nil, 5), review.ErrStaleCardReference)
}

func TestResolve(t *testing.T) {
	cards := []models.Card{{ID: 5, Front: "uno"}, {ID: 6, Front: "dos"}}

	t.Run("current card", func(t *testing.T) {
		sess := &review.Session{DeckID: 1, Order: []int64{6, 5}}
		card, err := review.Resolve(sess, cards)
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Equal(t, "dos", card.Front)
	})

	t.Run("dangling id", func(t *testing.T) {
		sess := &review.Session{DeckID: 1, Order: []int64{9, 5}}
		card, err := review.Resolve(sess, cards)
		assert.Nil(t, card)
		assert.ErrorIs(t, err, review.ErrStaleCardReference)
	})

	t.Run("finished", func(t *testing.T) {
		sess := &review.Session{DeckID: 1, Order: []int64{5}, Cursor: 1}
		card, err := review.Resolve(sess, cards)
		assert.NoError(t, err)
		assert.Nil(t, card)
	})
}
