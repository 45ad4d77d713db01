package layout

// Node is a measurable element. Its position is only known relative to its
// parent, as with any render tree that lays children out inside their
// container. A node is unmeasured until SetFrame has been called.
type Node struct {
	ID string

	parent   *Node
	children []*Node

	x, y          int
	width, height int
	measured      bool
}

// NewNode returns an unmeasured node.
func NewNode(id string) *Node {
	return &Node{ID: id}
}

// Parent returns the containing node, or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns the attached children in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Append attaches child to n, detaching it from any previous parent.
func (n *Node) Append(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	if n == nil || n.parent == nil {
		return
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// SetFrame records the node's parent-relative position and size.
func (n *Node) SetFrame(x, y, width, height int) {
	n.x, n.y = x, y
	n.width, n.height = width, height
	n.measured = true
}

// Invalidate marks the node as unmeasured again.
func (n *Node) Invalidate() {
	n.measured = false
}

// Measured reports whether the node has a frame.
func (n *Node) Measured() bool {
	return n != nil && n.measured
}

// Local returns the parent-relative frame.
func (n *Node) Local() (Region, bool) {
	if !n.Measured() {
		return Region{}, false
	}
	return Region{Left: n.x, Top: n.y, Width: n.width, Height: n.height}, true
}

// Measurer resolves an element to a region. A nil result means "not yet
// measured" and callers skip whatever depended on it.
type Measurer interface {
	Measure(n *Node, relativeTo *Node) *Region
}

// TreeMeasurer measures nodes by summing parent-relative offsets.
type TreeMeasurer struct{}

// Measure walks from n towards the root, adding each ancestor's offset, and
// stops at relativeTo. With a nil relativeTo the walk ends at the root. The
// result is nil if n or any ancestor on the path is unmeasured, or if
// relativeTo is not an ancestor of n.
func (TreeMeasurer) Measure(n *Node, relativeTo *Node) *Region {
	local, ok := n.Local()
	if !ok {
		return nil
	}
	r := local
	for p := n.parent; p != relativeTo; p = p.parent {
		if p == nil {
			if relativeTo != nil {
				return nil
			}
			break
		}
		pr, ok := p.Local()
		if !ok {
			return nil
		}
		r = r.Offset(pr.Left, pr.Top)
	}
	return &r
}
