package markup

import (
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// navigator implements xpath.NodeNavigator over an *html.Node tree.
//
// When the scope is an element rather than a document, a virtual document
// node sits above it. The scope has no siblings and its real parent is
// unreachable.
type navigator struct {
	root    *html.Node // document node, real or virtual
	scope   *html.Node
	virtual bool
	curr    *html.Node
	attr    int
}

func newNavigator(scope *html.Node) *navigator {
	n := &navigator{scope: scope, attr: -1}
	if scope.Type == html.DocumentNode {
		n.root = scope
	} else {
		n.root = &html.Node{Type: html.DocumentNode}
		n.virtual = true
	}
	n.curr = n.root
	return n
}

func (n *navigator) parent(node *html.Node) *html.Node {
	if n.virtual {
		switch node {
		case n.scope:
			return n.root
		case n.root:
			return nil
		}
	}
	if node == n.root {
		return nil
	}
	return node.Parent
}

func (n *navigator) firstChild(node *html.Node) *html.Node {
	if n.virtual && node == n.root {
		return n.scope
	}
	return node.FirstChild
}

func (n *navigator) nextSibling(node *html.Node) *html.Node {
	if node == n.scope || node == n.root {
		return nil
	}
	return node.NextSibling
}

func (n *navigator) prevSibling(node *html.Node) *html.Node {
	if node == n.scope || node == n.root {
		return nil
	}
	return node.PrevSibling
}

func (n *navigator) NodeType() xpath.NodeType {
	switch n.curr.Type {
	case html.CommentNode:
		return xpath.CommentNode
	case html.TextNode:
		return xpath.TextNode
	case html.ElementNode:
		if n.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	default:
		// document and doctype nodes
		return xpath.RootNode
	}
}

func (n *navigator) LocalName() string {
	if n.attr != -1 {
		return n.curr.Attr[n.attr].Key
	}
	return n.curr.Data
}

func (n *navigator) Prefix() string {
	if n.attr != -1 {
		return n.curr.Attr[n.attr].Namespace
	}
	return ""
}

func (n *navigator) Value() string {
	switch n.curr.Type {
	case html.CommentNode, html.TextNode:
		return n.curr.Data
	case html.ElementNode:
		if n.attr != -1 {
			return n.curr.Attr[n.attr].Val
		}
		return TextContent(n.curr)
	}
	if n.curr == n.root && n.virtual {
		return TextContent(n.scope)
	}
	return TextContent(n.curr)
}

func (n *navigator) Copy() xpath.NodeNavigator {
	cp := *n
	return &cp
}

func (n *navigator) MoveToRoot() {
	n.curr = n.root
	n.attr = -1
}

func (n *navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		return true
	}
	if p := n.parent(n.curr); p != nil {
		n.curr = p
		return true
	}
	return false
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.curr.Type != html.ElementNode || n.attr >= len(n.curr.Attr)-1 {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	if c := n.firstChild(n.curr); c != nil {
		n.curr = c
		return true
	}
	return false
}

func (n *navigator) MoveToFirst() bool {
	if n.attr != -1 || n.prevSibling(n.curr) == nil {
		return false
	}
	for p := n.prevSibling(n.curr); p != nil; p = n.prevSibling(n.curr) {
		n.curr = p
	}
	return true
}

func (n *navigator) MoveToNext() bool {
	if n.attr != -1 {
		return false
	}
	if s := n.nextSibling(n.curr); s != nil {
		n.curr = s
		return true
	}
	return false
}

func (n *navigator) MoveToPrevious() bool {
	if n.attr != -1 {
		return false
	}
	if s := n.prevSibling(n.curr); s != nil {
		n.curr = s
		return true
	}
	return false
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}
	n.curr = o.curr
	n.attr = o.attr
	return true
}

