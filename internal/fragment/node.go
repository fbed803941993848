package fragment

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a full page so callers can locate containers by id.
func ParseDocument(body string) (*html.Node, error) {
	return html.Parse(strings.NewReader(body))
}

// Attr returns the value of the named attribute or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, even if empty.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// DataAttrs collects data-* attributes keyed without the prefix.
func DataAttrs(n *html.Node) map[string]string {
	out := make(map[string]string)
	if n == nil {
		return out
	}
	for _, a := range n.Attr {
		if name, ok := strings.CutPrefix(a.Key, "data-"); ok {
			out[name] = a.Val
		}
	}
	return out
}

// HasClass reports whether class appears in the node's class list.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// First returns the first descendant of n (n included) matching pred.
func First(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := First(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// All returns every descendant of n (n included) matching pred, in document order.
func All(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(cur *html.Node) {
		if cur.Type == html.ElementNode && pred(cur) {
			out = append(out, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	if n != nil {
		visit(n)
	}
	return out
}

// FindID returns the first element below n with the given id.
func FindID(n *html.Node, id string) *html.Node {
	return First(n, func(c *html.Node) bool { return Attr(c, "id") == id })
}

// Text returns the collapsed text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteByte(' ')
		}
		if skipText(cur) {
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	if n != nil {
		visit(n)
	}
	return collapse(b.String())
}

// Render serializes n back to markup.
func Render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// Children wraps the element children of n as a Fragment, used when a
// container in a full document holds the first page of content.
func Children(n *html.Node) Fragment {
	if n == nil {
		return Fragment{}
	}
	var nodes []*html.Node
	var raw strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		nodes = append(nodes, c)
		raw.WriteString(Render(c))
	}
	return Fragment{Raw: strings.TrimSpace(raw.String()), Nodes: nodes}
}

// NodeLines renders n as text lines, one per block element.
func NodeLines(n *html.Node) []string {
	var w lineWriter
	w.walk(n)
	return w.finish()
}

type lineWriter struct {
	lines []string
	cur   strings.Builder
}

func (w *lineWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.cur.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipText(n) {
			return
		}
		if n.DataAtom == atom.Br {
			w.flush()
			return
		}
	}
	block := isBlock(n)
	if block {
		w.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.flush()
	}
}

func (w *lineWriter) flush() {
	if line := collapse(w.cur.String()); line != "" {
		w.lines = append(w.lines, line)
	}
	w.cur.Reset()
}

func (w *lineWriter) finish() []string {
	w.flush()
	return w.lines
}

func skipText(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Div, atom.P, atom.Li, atom.Ul, atom.Ol, atom.Tr, atom.Table,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Dt, atom.Dd, atom.Dl, atom.Pre, atom.Blockquote, atom.Fieldset,
		atom.Label, atom.Figure, atom.Figcaption, atom.Nav, atom.Aside:
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
