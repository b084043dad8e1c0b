// Package typeid generates prefixed, time-sortable identifiers for users,
// games and hands, e.g. "game_01h5n0et5q6mt3v7ms1234abcd".
package typeid

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const suffixLen = 26

// Prefix names the entity an identifier belongs to
type Prefix string

const (
	User Prefix = "user"
	Game Prefix = "game"
	Hand Prefix = "hand"
)

// ErrInvalid is returned for identifiers that do not parse.
var ErrInvalid = errors.New("typeid: invalid id")

var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Generator produces identifiers from a UUIDv7 source. A nil reader uses
// crypto/rand; tests inject a deterministic reader.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator with an optional randomness source
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

var defaultGenerator = NewGenerator(nil)

// New returns a fresh identifier for prefix using crypto/rand.
func New(prefix Prefix) string {
	id, err := defaultGenerator.New(prefix)
	if err != nil {
		panic("typeid: failed to generate random bytes: " + err.Error())
	}
	return id
}

// New returns a fresh identifier for prefix
func (g *Generator) New(prefix Prefix) (string, error) {
	var (
		u   uuid.UUID
		err error
	)
	if g.rand != nil {
		u, err = uuid.NewV7FromReader(g.rand)
	} else {
		u, err = uuid.NewV7()
	}
	if err != nil {
		return "", err
	}
	return Format(prefix, u), nil
}

// Format encodes u under prefix
func Format(prefix Prefix, u uuid.UUID) string {
	return string(prefix) + "_" + encode(u)
}

// Parse splits an identifier into prefix and UUID
func Parse(id string) (Prefix, uuid.UUID, error) {
	idx := strings.LastIndexByte(id, '_')
	if idx <= 0 {
		return "", uuid.Nil, fmt.Errorf("%w: missing prefix in %q", ErrInvalid, id)
	}
	u, err := decode(id[idx+1:])
	if err != nil {
		return "", uuid.Nil, err
	}
	return Prefix(id[:idx]), u, nil
}

// Validate checks that id parses and carries the expected prefix
func Validate(id string, want Prefix) error {
	prefix, _, err := Parse(id)
	if err != nil {
		return err
	}
	if prefix != want {
		return fmt.Errorf("%w: expected prefix %q, got %q", ErrInvalid, want, prefix)
	}
	return nil
}

// encode writes the 128-bit value as 26 base32 characters. The 130-bit
// output space carries two leading zero bits, so the first character is 0-7.
func encode(u uuid.UUID) string {
	out := make([]byte, suffixLen)
	for i := 0; i < suffixLen; i++ {
		var v byte
		for b := 0; b < 5; b++ {
			v = v<<1 | bitAt(u, i*5+b-2)
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

func bitAt(u uuid.UUID, pos int) byte {
	if pos < 0 {
		return 0
	}
	return (u[pos/8] >> (7 - pos%8)) & 1
}

func decode(s string) (uuid.UUID, error) {
	var u uuid.UUID
	if len(s) != suffixLen {
		return u, fmt.Errorf("%w: suffix must be exactly %d characters, got %d", ErrInvalid, suffixLen, len(s))
	}
	if s[0] > '7' {
		return u, fmt.Errorf("%w: first character must be 0-7, got %c", ErrInvalid, s[0])
	}
	for i := 0; i < suffixLen; i++ {
		v := decodeTable[s[i]]
		if v < 0 {
			return u, fmt.Errorf("%w: invalid character %c at position %d", ErrInvalid, s[i], i)
		}
		for b := 0; b < 5; b++ {
			pos := i*5 + b - 2
			if pos < 0 {
				continue
			}
			if (v>>(4-b))&1 == 1 {
				u[pos/8] |= 1 << (7 - pos%8)
			}
		}
	}
	return u, nil
}
