package typeid

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	id := New(Game)

	if !strings.HasPrefix(id, "game_") {
		t.Errorf("expected game_ prefix, got %s", id)
	}
	if len(id) != len("game_")+26 {
		t.Errorf("expected 31 characters, got %d", len(id))
	}
	if err := Validate(id, Game); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestNewUnique(t *testing.T) {
	ids := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := New(Hand)
		if ids[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestNewTimeSorted(t *testing.T) {
	var ids []string

	for i := 0; i < 10; i++ {
		ids = append(ids, New(Hand))
		time.Sleep(time.Millisecond)
	}

	// UUIDv7 ids sort by creation time
	for i := 1; i < len(ids); i++ {
		if strings.Compare(ids[i-1], ids[i]) >= 0 {
			t.Errorf("IDs not sorted: %s >= %s", ids[i-1], ids[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	u := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")

	id := Format(User, u)
	prefix, got, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%s) failed: %v", id, err)
	}
	if prefix != User {
		t.Errorf("expected prefix user, got %s", prefix)
	}
	if got != u {
		t.Errorf("round trip mismatch: %s != %s", got, u)
	}
}

func TestEncodeBoundaries(t *testing.T) {
	if s := encode(uuid.Nil); s != strings.Repeat("0", 26) {
		t.Errorf("nil uuid encoded as %s", s)
	}

	var max uuid.UUID
	for i := range max {
		max[i] = 0xff
	}
	if s := encode(max); s != "7"+strings.Repeat("z", 25) {
		t.Errorf("max uuid encoded as %s", s)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		prefix  Prefix
		wantErr bool
	}{
		{"valid ID", "game_01h5n0et5q6mt3v7ms1234abcd", Game, false},
		{"wrong prefix", "hand_01h5n0et5q6mt3v7ms1234abcd", Game, true},
		{"missing prefix", "01h5n0et5q6mt3v7ms1234abcd", Game, true},
		{"too short", "game_01h5n0et5q6mt3v7ms123", Game, true},
		{"too long", "game_01h5n0et5q6mt3v7ms1234abcdef", Game, true},
		{"first char too high", "game_81h5n0et5q6mt3v7ms1234abcd", Game, true},
		{"invalid character", "game_01h5n0et5q6mt3v7ms1234abci", Game, true},
		{"uppercase not allowed", "game_01H5N0ET5Q6MT3V7MS1234ABCD", Game, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id, tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGeneratorWithReader(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))

	id, err := gen.New(Game)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := Validate(id, Game); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}

	_, u, _ := Parse(id)
	if u.Version() != 7 {
		t.Errorf("expected UUID version 7, got %d", u.Version())
	}
}
