package service

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/typeid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RandomShoes shuffles with rng, or with a randomly seeded generator when
// rng is nil. The returned builder is safe for concurrent use.
func RandomShoes(rng *randutil.Locked) ShoeBuilder {
	if rng == nil {
		rng = randutil.NewLocked(randutil.New(randutil.Seed(nil)))
	}
	return func(deckCount int) (shoe blackjack.Shoe, err error) {
		rng.With(func(r *rand.Rand) {
			shoe, err = blackjack.BuildShoe(r, deckCount)
		})
		return shoe, err
	}
}

type outcome struct {
	view   game.HandView
	record *history.Record
}

// Deal debits the bet, replaces the game's shoe with a fresh one and deals
// a new hand. A natural 21 is settled before returning.
func (s *Service) Deal(ctx context.Context, userID, gameID string, bet decimal.Decimal) (game.HandView, error) {
	logger := s.logger.With().Str("user_id", userID).Str("game_id", gameID).Logger()
	if err := s.limits.Check(bet); err != nil {
		logger.Debug().Err(err).Msg("Deal rejected")
		return game.HandView{}, err
	}

	var out outcome
	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		u, err := tx.LockUser(userID)
		if err != nil {
			return err
		}
		g, err := s.activeGame(tx, userID, gameID)
		if err != nil {
			return err
		}
		balance, err := game.PlaceBet(u.Balance, bet)
		if err != nil {
			return err
		}

		shoe, err := s.shoes(s.deckCount)
		if err != nil {
			return err
		}
		h, err := game.Deal(shoe, bet)
		if err != nil {
			return err
		}
		if err := tx.PutShoe(gameID, h.Shoe.Strings()); err != nil {
			return err
		}

		row := &store.TableHand{
			ID:       typeid.New(typeid.Hand),
			GameID:   gameID,
			UserID:   userID,
			BetValue: bet,
		}
		s.fill(row, h)
		if err := tx.CreateHand(row); err != nil {
			return err
		}

		u.Balance = balance
		out, err = s.settle(tx, u, g, row, h)
		if err != nil {
			return err
		}
		return tx.SaveUser(u)
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Deal failed")
		return game.HandView{}, err
	}

	logger.Debug().Str("hand_id", out.view.TableHandID).Str("bet", bet.String()).
		Int("player_points", out.view.Player.Points).Msg("Hand dealt")
	s.record(out)
	return out.view, nil
}

// Hit deals one card to the player.
func (s *Service) Hit(ctx context.Context, userID, gameID, handID string) (game.HandView, error) {
	return s.act(ctx, "hit", userID, gameID, handID, game.Hand.Hit)
}

// Stand plays out the dealer and settles the hand.
func (s *Service) Stand(ctx context.Context, userID, gameID, handID string) (game.HandView, error) {
	return s.act(ctx, "stand", userID, gameID, handID, game.Hand.Stand)
}

func (s *Service) act(ctx context.Context, action, userID, gameID, handID string, step func(game.Hand) (game.Hand, error)) (game.HandView, error) {
	logger := s.logger.With().
		Str("action", action).
		Str("user_id", userID).
		Str("game_id", gameID).
		Str("hand_id", handID).
		Logger()

	var out outcome
	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		u, err := tx.LockUser(userID)
		if err != nil {
			return err
		}
		g, err := s.activeGame(tx, userID, gameID)
		if err != nil {
			return err
		}
		row, err := tx.LockHand(gameID, handID)
		if err != nil {
			return err
		}
		if row.Resolved() {
			return fmt.Errorf("%w: %s", game.ErrHandResolved, handID)
		}
		shoeRow, err := tx.LockShoe(gameID)
		if err != nil {
			return err
		}
		shoe, err := blackjack.ShoeFromStrings(shoeRow.Cards)
		if err != nil {
			return err
		}

		h, err := resume(row, shoe)
		if err != nil {
			return err
		}
		h, err = step(h)
		if err != nil {
			return err
		}

		if err := tx.PutShoe(gameID, h.Shoe.Strings()); err != nil {
			return err
		}
		s.fill(row, h)
		if err := tx.SaveHand(row); err != nil {
			return err
		}

		out, err = s.settle(tx, u, g, row, h)
		if err != nil {
			return err
		}
		if h.Resolved() {
			return tx.SaveUser(u)
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Action failed")
		return game.HandView{}, err
	}

	logger.Debug().Int("player_points", out.view.Player.Points).Msg("Action applied")
	s.record(out)
	return out.view, nil
}

// settle applies the outcome of a resolved hand to the user balance and the
// game fluctuations. Unresolved hands pass through unchanged.
func (s *Service) settle(tx *store.Tx, u *store.User, g *store.Game, row *store.TableHand, h game.Hand) (outcome, error) {
	out := outcome{view: h.View(row.ID)}
	if !h.Resolved() {
		return out, nil
	}

	settlement, err := game.Settle(h.Bet, h.Winner)
	if err != nil {
		return outcome{}, err
	}
	u.Balance = u.Balance.Add(settlement.BalanceCredit)
	g.HouseBalanceFluctuation = g.HouseBalanceFluctuation.Add(settlement.HouseDelta)
	g.UserBalanceFluctuation = g.UserBalanceFluctuation.Add(settlement.UserDelta)
	if err := tx.SaveGame(g); err != nil {
		return outcome{}, err
	}

	s.logger.Info().
		Str("game_id", g.ID).
		Str("hand_id", row.ID).
		Str("winner", string(h.Winner)).
		Str("bet", h.Bet.String()).
		Int("dealer_points", h.Dealer.Score.Points).
		Int("player_points", h.Player.Score.Points).
		Msg("Hand settled")

	rec := newRecord(row, settlement)
	out.record = &rec
	return out, nil
}

func (s *Service) record(out outcome) {
	if s.recorder != nil && out.record != nil {
		s.recorder.HandResolved(*out.record)
	}
}

// fill copies engine state onto the row. Points are always taken from the
// freshly computed scores.
func (s *Service) fill(row *store.TableHand, h game.Hand) {
	row.DealerCards = cardStrings(h.Dealer.Cards)
	row.PlayerCards = cardStrings(h.Player.Cards)
	row.DealerPoints = h.Dealer.Score.Points
	row.PlayerPoints = h.Player.Score.Points
	row.Winner = h.Winner
	if h.Resolved() {
		now := s.clock.Now().UTC()
		row.ResolvedAt = &now
	}
}

func resume(row *store.TableHand, shoe blackjack.Shoe) (game.Hand, error) {
	dealer, err := lookupCards(row.DealerCards)
	if err != nil {
		return game.Hand{}, fmt.Errorf("dealer cards: %w", err)
	}
	player, err := lookupCards(row.PlayerCards)
	if err != nil {
		return game.Hand{}, fmt.Errorf("player cards: %w", err)
	}
	return game.Resume(dealer, player, shoe, row.BetValue, row.Winner)
}

func lookupCards(raw []string) ([]blackjack.Card, error) {
	ids := make([]blackjack.CardID, len(raw))
	for i, s := range raw {
		id, err := blackjack.ParseCardID(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return blackjack.LookupAll(ids)
}

func cardStrings(cards []blackjack.Card) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](blackjack.Shoe(blackjack.IDs(cards)).Strings())
}

func newRecord(row *store.TableHand, settlement game.Settlement) history.Record {
	rec := history.Record{
		HandID:       row.ID,
		GameID:       row.GameID,
		UserID:       row.UserID,
		Bet:          row.BetValue,
		DealerCards:  []string(row.DealerCards),
		DealerPoints: row.DealerPoints,
		PlayerCards:  []string(row.PlayerCards),
		PlayerPoints: row.PlayerPoints,
		Winner:       string(row.Winner),
		HouseDelta:   settlement.HouseDelta,
	}
	if row.ResolvedAt != nil {
		rec.ResolvedAt = *row.ResolvedAt
	}
	return rec
}
