package viewmodel

import (
	"github.com/jwebster45206/adventure-client/pkg/actions"
	"github.com/jwebster45206/adventure-client/pkg/view"
)

// ActionGroup is one titled block of buttons.
type ActionGroup struct {
	Title   string
	Actions []actions.Action
}

// GamePage holds data for the game page.
type GamePage struct {
	Title           string
	RoomDescription string
	Items           []string
	Inventory       []string
	HealthText      string
	GameOver        bool
	Groups          []ActionGroup
	Error           string
}

// NewGamePage lays a derived view out the way the page shows it: moves,
// takes, then inventory and fixed actions together.
func NewGamePage(v view.View, lastErr error) GamePage {
	page := GamePage{
		Title:           "Text Adventure Game",
		RoomDescription: v.RoomDescription,
		Items:           v.Items,
		Inventory:       v.Inventory,
		HealthText:      v.HealthText,
		GameOver:        v.ShowGameOver,
		Groups: []ActionGroup{
			{Title: "Move", Actions: v.Moves},
			{Title: "Take", Actions: v.Takes},
			{Title: "Actions", Actions: append(append([]actions.Action{}, v.InventoryActions...), v.Fixed...)},
		},
	}
	if lastErr != nil {
		page.Error = lastErr.Error()
	}
	return page
}
