package flashcard

import "errors"

// ErrInvalidResponse is returned when a grading token is not one of the
// options offered for the card's current status. The card is never modified
// when this error is returned.
var ErrInvalidResponse = errors.New("flashcard: invalid response")
