package mirror

import (
	"fmt"
	"strings"
	"time"

	"github.com/buger/goterm"
	"github.com/jonboulle/clockwork"
)

// Sink receives fully rendered frames. The terminal implementation clears
// the screen and reprints; tests capture the frames instead.
type Sink interface {
	WriteFrame(frame string)
}

// Renderer produces a full textual snapshot of the tree on every mutation.
// It registers itself as the tree's update hook, so every status or
// progress write repaints synchronously: by the time a setter returns, the
// sink has seen the new state.
type Renderer struct {
	root   *Node
	sink   Sink
	clock  clockwork.Clock
	start  time.Time
	colors bool
}

func NewRenderer(root *Node, sink Sink, clock clockwork.Clock, colors bool) *Renderer {
	r := &Renderer{
		root:   root,
		sink:   sink,
		clock:  clock,
		start:  clock.Now(),
		colors: colors,
	}
	root.OnUpdate(r.Update)
	return r
}

// Update repaints the whole tree.
func (r *Renderer) Update() {
	r.sink.WriteFrame(r.Frame())
}

// Frame renders the tree to a string, headed by the elapsed run time.
func (r *Renderer) Frame() string {
	elapsed := r.clock.Since(r.start).Truncate(time.Second)
	return fmt.Sprintf("gddload (elapsed %s)\n%s\n", elapsed, r.renderNode(r.root))
}

func (r *Renderer) renderNode(node *Node) string {
	switch node.Kind {
	case KindFile:
		line := fmt.Sprintf("%s - %s %s", node.Name, node.Size(), node.Progress())
		return r.colorize(line, node.Status())
	case KindFolder:
		return r.renderFolder(node)
	default:
		return r.colorize(fmt.Sprintf("Unknown file %s", node.ID), node.Status())
	}
}

// renderFolder renders the folder's own line and, if its status warrants
// attention, the children inline with tree connectors. The last child gets a
// corner connector and blank continuation indent; earlier children get a
// branch connector and a vertical continuation indent, applied to every
// wrapped line of a multi-line child rendering.
func (r *Renderer) renderFolder(node *Node) string {
	line := fmt.Sprintf("%s/ - %s %s", node.Name, node.Size(), node.Progress())
	text := r.colorize(line, node.Status())

	if !node.Status().RequiresDetails() {
		return text + " ..."
	}

	for i, child := range node.Children {
		last := i == len(node.Children)-1
		for j, childLine := range strings.Split(r.renderNode(child), "\n") {
			var indent string
			switch {
			case last && j == 0:
				indent = "└ "
			case last:
				indent = "  "
			case j == 0:
				indent = "├ "
			default:
				indent = "│ "
			}
			text += "\n" + indent + childLine
		}
	}
	return text
}

func (r *Renderer) colorize(text string, status Status) string {
	if !r.colors {
		return text
	}
	return goterm.Color(text, status.Color())
}
