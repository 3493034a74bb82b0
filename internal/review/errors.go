package review

import "errors"

// ErrStaleCardReference is returned when a session refers to a card id that
// is no longer part of the deck, or a grade names a card outside the
// session's order.
var ErrStaleCardReference = errors.New("review: stale card reference")
