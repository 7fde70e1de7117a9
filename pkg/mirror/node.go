package mirror

import "path/filepath"

// Kind distinguishes files from folders. It's KindUnknown until the node's
// scan completes, and permanent afterwards.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindFolder
)

// updateHook fans a node mutation out to the renderer. All nodes in a tree
// share one hook, so a single leaf mutation repaints the whole tree before
// control returns to the mutator.
type updateHook struct {
	fn func()
}

func (h *updateHook) fire() {
	if h.fn != nil {
		h.fn()
	}
}

// Node is one entry (file or folder) in the mirrored tree.
type Node struct {
	// ID is the remote identifier. It's reassigned from the server response
	// during scan and treated as immutable afterwards.
	ID string

	// Dirname is the local directory the entry is saved under. For the
	// root it's the configured save path; for everything else it's the
	// parent's path, fixed at creation time.
	Dirname string

	// Name is the remote leaf name. Empty until the scan completes.
	Name string

	Kind Kind

	// ContentHash is the expected hex SHA-256 digest. Empty for folders.
	ContentHash string

	// Children holds the discovered child entries in discovery order.
	Children []*Node

	size     Size
	progress Progress
	status   Status

	updates *updateHook
}

// NewRoot creates the top-level node of a mirror tree.
func NewRoot(id, dirname string) *Node {
	return &Node{
		ID:      id,
		Dirname: dirname,
		status:  StatusPending,
		updates: &updateHook{},
	}
}

// OnUpdate registers the callback fired synchronously after every status or
// progress write anywhere in the tree.
func (n *Node) OnUpdate(fn func()) {
	n.updates.fn = fn
}

// NewChild creates a child entry saved under this node's path, appends it,
// and returns it. The child shares the tree's update hook.
func (n *Node) NewChild(id string) *Node {
	child := &Node{
		ID:      id,
		Dirname: n.Path(),
		status:  StatusPending,
		updates: n.updates,
	}
	n.Children = append(n.Children, child)
	return child
}

// Path is the local path the entry is materialized at.
func (n *Node) Path() string {
	return filepath.Join(n.Dirname, n.Name)
}

// Size returns the entry's byte count. Folder sizes are recomputed from the
// children on every read, so the total is correct even while children are
// still being discovered.
func (n *Node) Size() Size {
	if n.Kind == KindFolder {
		var total Size
		for _, child := range n.Children {
			total += child.Size()
		}
		return total
	}
	return n.size
}

// SetSize records the server-reported byte count of a file.
func (n *Node) SetSize(size Size) {
	n.size = size
}

// Progress returns the completion fraction. Folders derive it as the
// size-weighted mean of their children; an entry with no bytes to transfer
// counts as complete.
func (n *Node) Progress() Progress {
	size := n.Size()
	if size == 0 {
		return 1
	}

	if n.Kind == KindFolder {
		var weighted float64
		for _, child := range n.Children {
			weighted += float64(child.Progress()) * float64(child.Size())
		}
		return Progress(weighted / float64(size))
	}
	return n.progress
}

// SetProgress records transfer progress and repaints the tree. Out-of-range
// values are clamped.
func (n *Node) SetProgress(p float64) {
	n.progress = clampProgress(p)
	n.updates.fire()
}

func (n *Node) Status() Status {
	return n.status
}

// SetStatus moves the node through the state machine and repaints the tree.
func (n *Node) SetStatus(s Status) {
	n.status = s
	n.updates.fire()
}
