package game

import "fmt"

// Status is the lifetime state of a game session
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus converts a persisted status string
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusInProgress, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("game: unknown status %q", s)
	}
}

// CheckActive rejects actions against a completed game
func (s Status) CheckActive() error {
	if s == StatusCompleted {
		return ErrGameCompleted
	}
	return nil
}

// Finish returns the completed status. Completion does not depend on
// whether the game's hands have all been resolved.
func (s Status) Finish() Status {
	return StatusCompleted
}
