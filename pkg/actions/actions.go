package actions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/adventure-client/pkg/snapshot"
)

// Kind identifies the verb of an action.
type Kind string

const (
	KindMove      Kind = "go"
	KindTake      Kind = "take"
	KindUse       Kind = "use"
	KindDrop      Kind = "drop"
	KindFight     Kind = "fight"
	KindLook      Kind = "look"
	KindInventory Kind = "inventory"
	KindQuit      Kind = "quit"
)

// Action is a command offered to the player. Command is the exact string
// sent to the game service; Target is the direction or item, if any.
type Action struct {
	Kind    Kind   `json:"kind"`
	Target  string `json:"target,omitempty"`
	Label   string `json:"label"`
	Command string `json:"command"`
}

// fixedKinds are offered regardless of game state, in display order.
var fixedKinds = []Kind{KindFight, KindLook, KindInventory, KindQuit}

// New builds an action for a verb and optional target.
func New(kind Kind, target string) Action {
	// Casers hold state and must not be shared across goroutines.
	verb := cases.Title(language.English).String(string(kind))
	if target == "" {
		return Action{Kind: kind, Label: verb, Command: string(kind)}
	}
	return Action{
		Kind:    kind,
		Target:  target,
		Label:   verb + " " + target,
		Command: string(kind) + " " + target,
	}
}

func Go(direction string) Action { return New(KindMove, direction) }
func Take(item string) Action    { return New(KindTake, item) }
func Use(item string) Action     { return New(KindUse, item) }
func Drop(item string) Action    { return New(KindDrop, item) }

// Moves returns one action per open exit, in server order.
func Moves(exits snapshot.Exits) []Action {
	open := exits.Open()
	out := make([]Action, 0, len(open))
	for _, exit := range open {
		out = append(out, Go(exit.Direction))
	}
	return out
}

// Takes returns one action per item in the room.
func Takes(items []string) []Action {
	out := make([]Action, 0, len(items))
	for _, item := range items {
		out = append(out, Take(item))
	}
	return out
}

// InventoryActions returns use and drop for every held item.
func InventoryActions(inventory []string) []Action {
	out := make([]Action, 0, 2*len(inventory))
	for _, item := range inventory {
		out = append(out, Use(item), Drop(item))
	}
	return out
}

// Fixed returns the always-offered actions.
func Fixed() []Action {
	out := make([]Action, 0, len(fixedKinds))
	for _, k := range fixedKinds {
		out = append(out, New(k, ""))
	}
	return out
}

// Normalize trims free-form input. The game service is the only parser of
// commands, so nothing else is checked here.
func Normalize(command string) string {
	return strings.TrimSpace(command)
}
