package gate

import (
	"strings"

	"github.com/robalobadob/colormemory/internal/game"
)

// Action is what a key press asks for.
type Action int

const (
	ActionNone Action = iota
	ActionCue
	ActionClose
)

var keyMap = map[string]game.Cue{
	"q": game.Red, "1": game.Red,
	"w": game.Blue, "2": game.Blue,
	"a": game.Green, "3": game.Green,
	"s": game.Yellow, "4": game.Yellow,
}

// ResolveKey maps a keyboard key name to an action. Letter keys are
// case-insensitive; "Escape"/"Esc" closes the overlay.
func ResolveKey(key string) (Action, game.Cue) {
	k := strings.ToLower(Sanitize(key))
	if k == "escape" || k == "esc" {
		return ActionClose, ""
	}
	if c, ok := keyMap[k]; ok {
		return ActionCue, c
	}
	return ActionNone, ""
}
