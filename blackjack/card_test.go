package blackjack

import (
	"errors"
	"testing"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	cards := catalog
	if len(cards) != 52 {
		t.Fatalf("Expected 52 cards, got %d", len(cards))
	}

	seen := make(map[CardID]bool)
	for _, c := range cards {
		if seen[c.ID] {
			t.Errorf("duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}

	if len(byID) != 52 {
		t.Errorf("Expected 52 indexed ids, got %d", len(byID))
	}
}

func TestNewCardValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rank   Rank
		suit   Suit
		id     CardID
		value  int
		second int
	}{
		{Ace, Hearts, "1h", 1, 11},
		{Two, Clubs, "2c", 2, 0},
		{Nine, Diamonds, "9d", 9, 0},
		{Ten, Spades, "Ts", 10, 0},
		{Jack, Clubs, "Jc", 10, 0},
		{Queen, Hearts, "Qh", 10, 0},
		{King, Spades, "Ks", 10, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			c := NewCard(tt.rank, tt.suit)
			if c.ID != tt.id {
				t.Errorf("Expected id %s, got %s", tt.id, c.ID)
			}
			if c.Value != tt.value {
				t.Errorf("Expected value %d, got %d", tt.value, c.Value)
			}
			if c.SecondValue != tt.second {
				t.Errorf("Expected second value %d, got %d", tt.second, c.SecondValue)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c, err := Lookup("Kd")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if c.Rank != King || c.Suit != Diamonds {
		t.Errorf("Expected king of diamonds, got %v", c)
	}

	if _, err := Lookup("Zz"); !errors.Is(err, ErrUnknownCard) {
		t.Errorf("Expected ErrUnknownCard, got %v", err)
	}
}

func TestParseCardID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    CardID
		wantErr bool
	}{
		{"ks", "Ks", false},
		{"1H", "1h", false},
		{"tc", "Tc", false},
		{"Ax", "", true},
		{"10h", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCardID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCardID(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCardID(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCardID(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	if s := NewCard(Ace, Spades).String(); s != "A♠" {
		t.Errorf("Expected A♠, got %s", s)
	}
	if s := NewCard(Ten, Hearts).String(); s != "10♥" {
		t.Errorf("Expected 10♥, got %s", s)
	}
	if !Hearts.IsRed() || Spades.IsRed() {
		t.Error("suit colour mismatch")
	}
}
