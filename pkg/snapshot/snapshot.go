package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultHealth is the health shown before the first snapshot arrives.
const DefaultHealth = 100

// ErrMissingField is returned when a response omits a required field.
var ErrMissingField = errors.New("snapshot: missing required field")

// Snapshot is the complete game state reported by the game service.
// A Snapshot is never modified after it is decoded; a new one replaces it.
type Snapshot struct {
	RoomDescription string   `json:"room_description"`
	Items           []string `json:"items"`
	Inventory       []string `json:"inventory"`
	Health          int      `json:"health"`
	GameOver        bool     `json:"game_over"`
	Directions      Exits    `json:"directions"`
}

// Initial returns the state held before any snapshot has been received.
func Initial() Snapshot {
	return Snapshot{
		Items:      []string{},
		Inventory:  []string{},
		Health:     DefaultHealth,
		Directions: Exits{},
	}
}

// wireSnapshot mirrors the JSON body. Pointers tell absent (or null) from zero.
type wireSnapshot struct {
	RoomDescription *string   `json:"room_description"`
	Items           []string  `json:"items"`
	Inventory       *[]string `json:"inventory"`
	Health          *int      `json:"health"`
	GameOver        *bool     `json:"game_over"`
	Directions      Exits     `json:"directions"`
}

// UnmarshalJSON decodes a snapshot, defaulting the optional items and
// directions to empty and rejecting bodies that omit a required field.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.RoomDescription == nil:
		return fmt.Errorf("%w: room_description", ErrMissingField)
	case w.Inventory == nil:
		return fmt.Errorf("%w: inventory", ErrMissingField)
	case w.Health == nil:
		return fmt.Errorf("%w: health", ErrMissingField)
	case w.GameOver == nil:
		return fmt.Errorf("%w: game_over", ErrMissingField)
	}

	out := Snapshot{
		RoomDescription: *w.RoomDescription,
		Items:           w.Items,
		Inventory:       *w.Inventory,
		Health:          *w.Health,
		GameOver:        *w.GameOver,
		Directions:      w.Directions,
	}
	if out.Items == nil {
		out.Items = []string{}
	}
	if out.Directions == nil {
		out.Directions = Exits{}
	}

	*s = out
	return nil
}

// Decode parses a response body into a Snapshot.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// Clone returns a deep copy so callers cannot reach into held state.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Items = append([]string{}, s.Items...)
	out.Inventory = append([]string{}, s.Inventory...)
	out.Directions = append(Exits{}, s.Directions...)
	return out
}
