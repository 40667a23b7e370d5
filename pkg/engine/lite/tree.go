package lite

import (
	"strings"

	"golang.org/x/net/html"

	"imhtml/pkg/engine"
)

// node is an element or text run of the document tree.
type node struct {
	tag      string // empty for text
	text     string
	attrs    map[string]string
	src      *html.Node
	parent   *node
	children []*node

	override engine.Element
	style    style

	// Layout results, relative to the document origin.
	box     engine.Position
	frags   []*fragment
	marker  *engine.ListMarker
	ordinal int
	boxed   bool
}

func (n *node) isText() bool { return n.tag == "" }

// block reports whether the node starts a new block in its parent.
func (n *node) block() bool {
	if n.isText() {
		return false
	}
	if n.override != nil {
		return true
	}
	switch n.style.display {
	case "block", "list-item":
		return true
	}
	return false
}

// link returns the nearest <a href> at or above n.
func (n *node) link() *node {
	for p := n; p != nil; p = p.parent {
		if p.tag == "a" {
			if _, ok := p.attrs["href"]; ok {
				return p
			}
		}
	}
	return nil
}

func attrMap(n *html.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

// textContent concatenates the text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// build converts the parsed html into the node tree, asking the container
// for element overrides and handling the head elements that talk to it.
func (d *Document) build(h *html.Node, parent *node) *node {
	switch h.Type {
	case html.TextNode:
		if parent == nil {
			return nil
		}
		return &node{text: h.Data, src: h, parent: parent}
	case html.ElementNode:
	default:
		return nil
	}

	n := &node{tag: strings.ToLower(h.Data), attrs: attrMap(h), src: h, parent: parent}
	n.override = d.container.CreateElement(n.tag, n.attrs, d)

	switch n.tag {
	case "title":
		d.container.SetCaption(strings.TrimSpace(textContent(h)))
	case "base":
		if href, ok := n.attrs["href"]; ok {
			d.baseURL = href
			d.container.SetBaseURL(href)
		}
	case "link":
		d.container.Link(d, n.attrs)
		if strings.EqualFold(n.attrs["rel"], "stylesheet") && n.attrs["href"] != "" {
			if text := d.container.ImportCSS(n.attrs["href"], d.baseURL); text != "" {
				d.sheets = append(d.sheets, text)
			}
		}
	case "style":
		d.sheets = append(d.sheets, textContent(h))
	case "img":
		if src := n.attrs["src"]; src != "" {
			d.container.LoadImage(src, d.baseURL, true)
		}
	}

	if n.override != nil {
		return n
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := d.build(c, n); child != nil {
			n.children = append(n.children, child)
		}
	}
	return n
}

// walk visits n and its descendants in document order.
func walk(n *node, fn func(*node)) {
	fn(n)
	for _, c := range n.children {
		walk(c, fn)
	}
}
