// Package game implements the blackjack hand engine.
//
// The main type is Hand, a value object holding the dealer and player cards,
// the remaining shoe, the bet and the winner. Every action returns the next
// Hand instead of mutating the receiver, so a caller can persist or discard
// a transition as a unit.
//
// # Basic Usage
//
//	shoe, _ := blackjack.BuildShoe(rng, blackjack.DefaultDeckCount)
//	h, err := game.Deal(shoe, decimal.NewFromInt(30))
//	if err != nil {
//	    return err
//	}
//	if !h.Resolved() {
//	    h, err = h.Stand()
//	}
//	settlement, err := game.Settle(h.Bet, h.Winner)
//
// # Rules
//
//   - The dealer receives one card, then the player two.
//   - A player total of exactly 21 ends the hand: the dealer plays out and
//     the winner is decided without further input.
//   - The dealer draws while below 17 and stands on any 17, soft or hard.
//   - A busted player loses immediately; the dealer never plays out.
//   - Wins pay 1:1, draws return the bet.
package game
