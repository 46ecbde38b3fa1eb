package shell

import (
	"errors"
	"time"
)

const (
	// Identity is what whoami prints
	Identity = "keuhdall"
	// Prompt is shown in front of every transcript line
	Prompt = Identity + "@home:~$"

	// DefaultLatency is the simulated typing delay before output appears
	DefaultLatency = 500 * time.Millisecond

	// NotBrowsing is the history cursor value outside of history navigation
	NotBrowsing = -1
)

// ErrBusy is returned when a command is submitted while output is pending
var ErrBusy = errors.New("shell is busy")

// Entry is one transcript line: the submitted input and its output
type Entry struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
	Pending   bool      `json:"pending,omitempty"`
}

// Direction selects older ("up") or newer ("down") history entries
type Direction string

const (
	HistoryUp   Direction = "up"
	HistoryDown Direction = "down"
)

// Completion reports what a tab completion did
type Completion struct {
	// Input is the input field after completion
	Input string `json:"input"`
	// Matches holds every candidate that matched, in registry order
	Matches []string `json:"matches"`
	// Listed is true when several matches were written to the transcript
	Listed bool `json:"listed"`
}
