// Package history writes settled hands to TOML files, one numbered section
// per hand, buffered per game and flushed in the background.
package history

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/shopspring/decimal"
)

// Record is one settled hand as written to disk.
type Record struct {
	HandID       string          `toml:"hand_id"`
	GameID       string          `toml:"game_id"`
	UserID       string          `toml:"user_id"`
	Bet          decimal.Decimal `toml:"bet"`
	DealerCards  []string        `toml:"dealer_cards"`
	DealerPoints int             `toml:"dealer_points"`
	PlayerCards  []string        `toml:"player_cards"`
	PlayerPoints int             `toml:"player_points"`
	Winner       string          `toml:"winner"`
	HouseDelta   decimal.Decimal `toml:"house_delta"`
	ResolvedAt   time.Time       `toml:"resolved_at"`
}

// Encode writes a single record as bare TOML keys.
func Encode(w io.Writer, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("history: record is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(rec)
}

// Export writes records as sections [1], [2], ... in order.
func Export(w io.Writer, records []Record) error {
	for i := range records {
		if err := writeSection(w, i+1, &records[i], i < len(records)-1); err != nil {
			return err
		}
	}
	return nil
}

// ExportFile writes records to path atomically
func ExportFile(path string, records []Record) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Export(w, records)
	})
}

// ReadFile parses a hands file back into records ordered by section number.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sections map[string]Record
	if _, err := toml.Decode(string(data), &sections); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", path, err)
	}

	keys := make([]int, 0, len(sections))
	for k := range sections {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("history: unexpected section %q", k)
		}
		keys = append(keys, n)
	}
	sort.Ints(keys)

	records := make([]Record, 0, len(keys))
	for _, n := range keys {
		records = append(records, sections[strconv.Itoa(n)])
	}
	return records, nil
}

func writeSection(w io.Writer, section int, rec *Record, needBlank bool) error {
	if _, err := fmt.Fprintf(w, "[%d]\n", section); err != nil {
		return err
	}
	if err := Encode(w, rec); err != nil {
		return err
	}
	if needBlank {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
