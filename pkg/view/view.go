// Package view computes what a front-end shows for a snapshot.
package view

import (
	"strconv"

	"github.com/jwebster45206/adventure-client/pkg/actions"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
)

// View is the presentational state derived from one snapshot. It is
// rebuilt from scratch on every read, so it never drifts from the snapshot.
type View struct {
	RoomDescription string   `json:"room_description"`
	Items           []string `json:"items"`
	Inventory       []string `json:"inventory"`
	HealthText      string   `json:"health_text"`
	ShowGameOver    bool     `json:"show_game_over"`

	Moves            []actions.Action `json:"moves"`
	Takes            []actions.Action `json:"takes"`
	InventoryActions []actions.Action `json:"inventory_actions"`
	Fixed            []actions.Action `json:"fixed"`
}

// Derive builds the view for a snapshot.
func Derive(s snapshot.Snapshot) View {
	return View{
		RoomDescription:  s.RoomDescription,
		Items:            append([]string{}, s.Items...),
		Inventory:        append([]string{}, s.Inventory...),
		HealthText:       strconv.Itoa(s.Health),
		ShowGameOver:     s.GameOver,
		Moves:            actions.Moves(s.Directions),
		Takes:            actions.Takes(s.Items),
		InventoryActions: actions.InventoryActions(s.Inventory),
		Fixed:            actions.Fixed(),
	}
}

// Actions returns every offered action in display order: moves, takes,
// inventory actions, then the fixed ones.
func (v View) Actions() []actions.Action {
	out := make([]actions.Action, 0, len(v.Moves)+len(v.Takes)+len(v.InventoryActions)+len(v.Fixed))
	out = append(out, v.Moves...)
	out = append(out, v.Takes...)
	out = append(out, v.InventoryActions...)
	out = append(out, v.Fixed...)
	return out
}
