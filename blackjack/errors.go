// Package blackjack holds the card catalog, shoe building and point
// counting shared by the hand engine and the store.
package blackjack

import "errors"

var (
	// ErrInvalidArgument indicates malformed input such as a non-positive quantity.
	ErrInvalidArgument = errors.New("blackjack: invalid argument")

	// ErrUnknownCard indicates a card identity outside the 52-card catalog.
	ErrUnknownCard = errors.New("blackjack: unknown card")

	// ErrShoeExhausted indicates a draw larger than the remaining shoe.
	ErrShoeExhausted = errors.New("blackjack: shoe exhausted")
)
