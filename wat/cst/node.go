package cst

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/wat-syntax/wat/token"
)

// Node is a concrete syntax tree node. Leaves have Kind Token and carry
// the lexer token; every other node owns an ordered list of children.
// Parent is a lookup aid for consumers; the tree is owned top-down.
type Node struct {
	Parent   *Node
	Children []*Node
	Token    token.Token
	Start    int
	End      int
	Kind     Kind
}

// NewLeaf wraps a lexer token.
func NewLeaf(tok token.Token) *Node {
	return &Node{Kind: Token, Token: tok, Start: tok.Start, End: tok.End}
}

// NewNode creates a node owning children and sets their parent. An empty
// node is placed at offset at.
func NewNode(kind Kind, children []*Node, at int) *Node {
	n := &Node{Kind: kind, Children: children, Start: at, End: at}
	if len(children) > 0 {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// IsToken reports whether n is a leaf.
func (n *Node) IsToken() bool {
	return n.Kind == Token
}

// IsTrivia reports whether n is whitespace or a comment.
func (n *Node) IsTrivia() bool {
	if n.Kind == Comment {
		return true
	}
	return n.Kind == Token && n.Token.Kind.IsTrivia()
}

// Text returns the source text covered by n, trivia included.
func (n *Node) Text() string {
	if n.IsToken() {
		return n.Token.Text
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.IsToken() {
		b.WriteString(n.Token.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// Nodes returns the children of n that are neither leaves nor comments.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsToken() && c.Kind != Comment {
			out = append(out, c)
		}
	}
	return out
}

// Tokens returns the significant tokens directly under n.
func (n *Node) Tokens() []token.Token {
	var out []token.Token
	for _, c := range n.Children {
		if c.IsToken() && !c.Token.Kind.IsTrivia() {
			out = append(out, c.Token)
		}
	}
	return out
}

// FirstToken returns the first significant token in n's subtree.
func (n *Node) FirstToken() (token.Token, bool) {
	var tok token.Token
	found := false
	n.Walk(func(c *Node) bool {
		if found {
			return false
		}
		if c.IsToken() && !c.Token.Kind.IsTrivia() {
			tok, found = c.Token, true
		}
		return !found
	})
	return tok, found
}

// Walk visits n and its descendants in source order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant of kind k, or nil.
func (n *Node) Find(k Kind) *Node {
	var found *Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if found != nil {
				return false
			}
			if d.Kind == k {
				found = d
			}
			return found == nil
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of kind k in source order.
func (n *Node) FindAll(k Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Kind == k {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Child returns the first direct child of kind k, or nil.
func (n *Node) Child(k Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// Ancestor returns the closest ancestor of kind k, or nil.
func (n *Node) Ancestor(k Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == k {
			return p
		}
	}
	return nil
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Dump writes an indented outline of the tree. Whitespace leaves are
// omitted; every other leaf is printed with its quoted text.
func (n *Node) Dump(w io.Writer) error {
	return n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, indent int) error {
	pad := strings.Repeat("  ", indent)
	if n.IsToken() {
		if n.Token.Kind == token.Whitespace {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s%v %s\n", pad, n.Token.Kind, strconv.Quote(n.Token.Text))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%v [%d,%d)\n", pad, n.Kind, n.Start, n.End); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.dump(w, indent+1); err != nil {
			return err
		}
	}
	return nil
}

// String returns the Dump outline of n.
func (n *Node) String() string {
	var b strings.Builder
	_ = n.Dump(&b)
	return b.String()
}
