// Package term writes rendered frames to the user's terminal.
package term

import "github.com/buger/goterm"

// Screen repaints the whole terminal on every frame. The mirror engine only
// knows it can hand over a frame; the escape-sequence mechanics live here.
type Screen struct{}

// NewScreen clears the terminal so the first frame starts from a blank
// screen.
func NewScreen() *Screen {
	goterm.Clear()
	goterm.Flush()
	return &Screen{}
}

func (s *Screen) WriteFrame(frame string) {
	goterm.Clear()
	goterm.MoveCursor(1, 1)
	goterm.Print(frame)
	goterm.Flush()
}
