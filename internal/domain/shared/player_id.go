package shared

import (
	"fmt"
	"strings"
)

// PlayerID is a value object representing a player's unique identifier.
// Player identifiers are UUID-shaped strings, capped at 36 characters, as
// issued by the game server that fronts this engine.
type PlayerID struct {
	value string
}

const maxPlayerIDLength = 36

// NewPlayerID creates a new PlayerID value object, rejecting empty or
// over-length identifiers.
func NewPlayerID(id string) (PlayerID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PlayerID{}, fmt.Errorf("player_id must not be empty")
	}
	if len(id) > maxPlayerIDLength {
		return PlayerID{}, fmt.Errorf("player_id must be at most %d characters, got %d", maxPlayerIDLength, len(id))
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid.
// Use this only when you're certain the ID is valid (e.g., from database).
func MustNewPlayerID(id string) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// Value returns the underlying string value of the PlayerID.
func (p PlayerID) Value() string {
	return p.value
}

// String returns a string representation of the PlayerID.
func (p PlayerID) String() string {
	return p.value
}

// Equals checks if two PlayerIDs are equal.
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}

// IsZero checks if the PlayerID is the zero value (uninitialized).
func (p PlayerID) IsZero() bool {
	return p.value == ""
}
