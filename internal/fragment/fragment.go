package fragment

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a parsed server-rendered partial HTML response.
type Fragment struct {
	Raw   string
	Nodes []*html.Node
}

// Entry is one top-level element of a fragment flattened to terminal text.
type Entry struct {
	Title string
	Href  string
	Class string
	Lines []string
}

// Parse reads body as an HTML fragment in a <body> context. A whitespace-only
// body yields an empty Fragment and no error.
func Parse(body string) (Fragment, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return Fragment{Raw: trimmed}, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(trimmed), context)
	if err != nil {
		return Fragment{}, fmt.Errorf("parse fragment: %w", err)
	}
	return Fragment{Raw: trimmed, Nodes: nodes}, nil
}

// Empty reports whether the fragment carries no content.
func (f Fragment) Empty() bool {
	return strings.TrimSpace(f.Raw) == ""
}

// Elements returns the top-level element nodes, skipping text and comments.
func (f Fragment) Elements() []*html.Node {
	out := make([]*html.Node, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

// Entries flattens every top-level element into an Entry. Stray top-level text
// becomes an untitled entry of its own.
func (f Fragment) Entries() []Entry {
	var entries []Entry
	for _, n := range f.Nodes {
		switch n.Type {
		case html.ElementNode:
			entries = append(entries, newEntry(n))
		case html.TextNode:
			if text := collapse(n.Data); text != "" {
				entries = append(entries, Entry{Lines: []string{text}})
			}
		}
	}
	return entries
}

// Lines renders the whole fragment as text lines, one per block element.
func (f Fragment) Lines() []string {
	var w lineWriter
	for _, n := range f.Nodes {
		w.walk(n)
	}
	return w.finish()
}

// FindID returns the first element in the fragment with the given id.
func (f Fragment) FindID(id string) *html.Node {
	for _, n := range f.Nodes {
		if found := FindID(n, id); found != nil {
			return found
		}
	}
	return nil
}

func newEntry(n *html.Node) Entry {
	entry := Entry{
		Class: Attr(n, "class"),
		Lines: NodeLines(n),
	}
	if heading := First(n, isHeading); heading != nil {
		entry.Title = Text(heading)
	}
	if link := First(n, func(c *html.Node) bool { return c.DataAtom == atom.A && Attr(c, "href") != "" }); link != nil {
		entry.Href = Attr(link, "href")
		if entry.Title == "" {
			entry.Title = Text(link)
		}
	}
	if entry.Title == "" && len(entry.Lines) > 0 {
		entry.Title = entry.Lines[0]
	}
	return entry
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
