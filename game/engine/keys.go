package engine

import "strings"

// ActionKind classifies what a key press does in the game view
type ActionKind string

const (
	ActionNone    ActionKind = "none"
	ActionMove    ActionKind = "move"
	ActionRestart ActionKind = "restart"
	ActionExit    ActionKind = "exit"
)

// Action is the result of mapping a key press
type Action struct {
	Kind      ActionKind `json:"kind"`
	Direction Direction  `json:"direction,omitempty"`
	Moved     bool       `json:"moved,omitempty"`
}

// Both the letter convention and the arrow convention are accepted. Arrow
// keys arrive as "arrowup" from browsers and as "up" from terminals.
var keyBindings = map[string]Action{
	"w":          {Kind: ActionMove, Direction: Up},
	"arrowup":    {Kind: ActionMove, Direction: Up},
	"up":         {Kind: ActionMove, Direction: Up},
	"s":          {Kind: ActionMove, Direction: Down},
	"arrowdown":  {Kind: ActionMove, Direction: Down},
	"down":       {Kind: ActionMove, Direction: Down},
	"a":          {Kind: ActionMove, Direction: Left},
	"arrowleft":  {Kind: ActionMove, Direction: Left},
	"left":       {Kind: ActionMove, Direction: Left},
	"d":          {Kind: ActionMove, Direction: Right},
	"arrowright": {Kind: ActionMove, Direction: Right},
	"right":      {Kind: ActionMove, Direction: Right},
	"r":          {Kind: ActionRestart},
	"q":          {Kind: ActionExit},
}

// ParseKey maps a key name to an Action (case-insensitive)
func ParseKey(key string) Action {
	if action, ok := keyBindings[strings.ToLower(key)]; ok {
		return action
	}
	return Action{Kind: ActionNone}
}
