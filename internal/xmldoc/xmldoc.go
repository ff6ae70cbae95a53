// Package xmldoc provides a minimal ordered DOM over encoding/xml tokens.
//
// Publisher XML arrives in heterogeneous schemas that are classified only
// after parsing, so field extraction works by duck-typed lookups (first
// matching descendant by name, optionally filtered by attribute) rather than
// by static per-schema structs. Nodes preserve mixed content in document
// order so running text can be reassembled from deeply tagged bodies.
package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed document. The zero value is not usable;
// nodes are produced by Parse.
type Node struct {
	// Name is the element's local name, ignoring any namespace prefix.
	Name string
	// Attrs maps local attribute names to values. Later duplicates win.
	Attrs map[string]string

	parts []part
}

// part is one unit of mixed content: either a text run or a child element.
type part struct {
	text string
	node *Node
}

// Parse reads an XML document into a tree. The returned node is a synthetic
// document root; its children are the document's top-level elements. Parsing
// is lenient: unknown entities and minor malformations do not fail, matching
// the tolerance expected of real publisher XML.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &Node{Name: "", Attrs: map[string]string{}}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			child := &Node{Name: t.Name.Local, Attrs: attrs}
			parent := stack[len(stack)-1]
			parent.parts = append(parent.parts, part{node: child})
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			parent := stack[len(stack)-1]
			parent.parts = append(parent.parts, part{text: string(t)})
		}
	}

	return root, nil
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// Children returns the element children of n in document order.
func (n *Node) Children() []*Node {
	var kids []*Node
	for _, p := range n.parts {
		if p.node != nil {
			kids = append(kids, p.node)
		}
	}
	return kids
}

// Find returns the first descendant element with the given local name in
// depth-first document order, or nil when none exists.
func (n *Node) Find(name string) *Node {
	for _, p := range n.parts {
		if p.node == nil {
			continue
		}
		if p.node.Name == name {
			return p.node
		}
		if found := p.node.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element with the given local name in
// depth-first document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	for _, p := range n.parts {
		if p.node == nil {
			continue
		}
		if p.node.Name == name {
			out = append(out, p.node)
		}
		out = append(out, p.node.FindAll(name)...)
	}
	return out
}

// FindWithAttr returns the first descendant element with the given local
// name whose attribute attr equals value, or nil when none exists.
func (n *Node) FindWithAttr(name, attr, value string) *Node {
	for _, p := range n.parts {
		if p.node == nil {
			continue
		}
		if p.node.Name == name && p.node.Attr(attr) == value {
			return p.node
		}
		if found := p.node.FindWithAttr(name, attr, value); found != nil {
			return found
		}
	}
	return nil
}

// Text returns all character data beneath n concatenated in document order,
// with no separators inserted.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, p := range n.parts {
		if p.node != nil {
			p.node.writeText(b)
		} else {
			b.WriteString(p.text)
		}
	}
}

// TrimmedText returns Text with surrounding whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text())
}

// StrippedStrings returns every non-empty whitespace-trimmed text run beneath
// n, in document order. Useful for reassembling running text from bodies
// where every phrase is wrapped in formatting tags.
func (n *Node) StrippedStrings() []string {
	var out []string
	n.collectStripped(&out)
	return out
}

func (n *Node) collectStripped(out *[]string) {
	for _, p := range n.parts {
		if p.node != nil {
			p.node.collectStripped(out)
			continue
		}
		if s := strings.TrimSpace(p.text); s != "" {
			*out = append(*out, s)
		}
	}
}
