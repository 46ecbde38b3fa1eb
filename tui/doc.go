// Package tui runs the terminal portfolio locally with Bubble Tea.
//
// The model owns one shell and, while 2048 runs, one game engine. Deferred
// command output is queued on a shell.Queue and released by tea.Tick, so
// every state change happens on the Bubble Tea event loop and no locking
// is needed. Links in command output are written as OSC 8 hyperlinks.
package tui
