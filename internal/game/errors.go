package game

import "errors"

var (
	// ErrInsufficientBalance indicates the bet exceeds the user's balance.
	ErrInsufficientBalance = errors.New("game: insufficient balance")

	// ErrInvalidBet indicates a non-positive or out-of-range bet.
	ErrInvalidBet = errors.New("game: invalid bet")

	// ErrHandResolved indicates an action on a hand whose winner is already set.
	ErrHandResolved = errors.New("game: hand already resolved")

	// ErrHandInProgress indicates settlement was requested before a winner exists.
	ErrHandInProgress = errors.New("game: hand still in progress")

	// ErrGameCompleted indicates an action on a completed game.
	ErrGameCompleted = errors.New("game: game already completed")
)
