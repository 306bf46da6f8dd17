package jsast

// Node is a single syntax node. Nodes form a tree with parent, child and
// sibling links; Range indexes into the owning FileSnapshot's Content.
type Node struct {
	// Kind classifies the node.
	Kind Kind

	// Type is the grammar node type the parser produced (e.g. "jsx_attribute").
	Type string

	// Field is the grammar field name this node occupies in its parent
	// (e.g. "key", "value", "source"); empty when the grammar names none.
	Field string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Range is the byte range of the node in File.Content.
	Range Range

	// File is a back-reference to the containing FileSnapshot.
	File *FileSnapshot
}

// NewNode creates a detached node of the given kind.
func NewNode(kind Kind, r Range) *Node {
	return &Node{Kind: kind, Range: r}
}

// Text returns the source text covered by the node, or nil if detached.
func (n *Node) Text() []byte {
	if n == nil || n.File == nil {
		return nil
	}
	return n.File.Slice(n.Range)
}

// SourcePosition returns the line/column range of the node.
func (n *Node) SourcePosition() SourcePosition {
	if n == nil || n.File == nil {
		return SourcePosition{}
	}
	return n.File.Position(n.Range)
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// ChildByField returns the first direct child occupying the given field.
func (n *Node) ChildByField(field string) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ChildrenOfKind returns the direct children with the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// Ancestor returns the nearest ancestor with the given kind, or nil.
func (n *Node) Ancestor(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// AppendChild appends child to parent, maintaining sibling links.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// SetFile sets the file reference for a node and all its descendants.
func SetFile(root *Node, file *FileSnapshot) {
	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *Node) error {
		n.File = file
		return nil
	})
}
