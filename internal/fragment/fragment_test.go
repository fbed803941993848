package fragment

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestParse_EmptyBodies(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t \n"} {
		frag, err := Parse(body)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", body, err)
		}
		if !frag.Empty() {
			t.Fatalf("Parse(%q).Empty() = false, want true", body)
		}
		if len(frag.Entries()) != 0 {
			t.Fatalf("Parse(%q).Entries() = %#v, want none", body, frag.Entries())
		}
	}
}

func TestParse_EntriesFromDataItems(t *testing.T) {
	frag, err := Parse(`
		<div class="data"><h2>First</h2><p>Body  one</p></div>
		<div class="data"><a href="/content/2">Second</a><script>ignored()</script></div>
	`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if frag.Empty() {
		t.Fatal("Empty() = true, want false")
	}
	if got := len(frag.Elements()); got != 2 {
		t.Fatalf("Elements() = %d, want 2", got)
	}

	entries := frag.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %#v, want 2 entries", entries)
	}
	if entries[0].Title != "First" || entries[0].Class != "data" {
		t.Fatalf("entry 0 = %#v, want title First class data", entries[0])
	}
	if want := []string{"First", "Body one"}; !reflect.DeepEqual(entries[0].Lines, want) {
		t.Fatalf("entry 0 lines = %q, want %q", entries[0].Lines, want)
	}
	if entries[1].Title != "Second" || entries[1].Href != "/content/2" {
		t.Fatalf("entry 1 = %#v, want title Second href /content/2", entries[1])
	}
	for _, line := range entries[1].Lines {
		if strings.Contains(line, "ignored") {
			t.Fatalf("script text leaked into lines: %q", entries[1].Lines)
		}
	}
}

func TestLines_BreaksOnBlocksAndBr(t *testing.T) {
	frag, err := Parse(`<p>Signal <b>locked</b></p><span>SNR 9.1</span><br>Bitrate<ul><li>a</li><li>b</li></ul>`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"Signal locked", "SNR 9.1", "Bitrate", "a", "b"}
	if got := frag.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
}

func TestDocumentHelpers(t *testing.T) {
	doc, err := ParseDocument(`<html><body>
		<ul id="content-list" class="list wide" data-total="3" data-url="/x">
			<li class="data">A</li>
			<li class="data">B</li>
		</ul></body></html>`)
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}
	list := FindID(doc, "content-list")
	if list == nil {
		t.Fatal("FindID(content-list) = nil")
	}
	if got := Attr(list, "data-total"); got != "3" {
		t.Fatalf("data-total = %q, want 3", got)
	}
	if !HasClass(list, "wide") || HasClass(list, "data") {
		t.Fatalf("HasClass mismatch for class=%q", Attr(list, "class"))
	}
	if got := DataAttrs(list); got["total"] != "3" || got["url"] != "/x" {
		t.Fatalf("DataAttrs = %v, want total and url", got)
	}

	first := Children(list)
	if len(first.Entries()) != 2 {
		t.Fatalf("Children entries = %#v, want 2", first.Entries())
	}
	if !strings.Contains(first.Raw, `<li class="data">A</li>`) {
		t.Fatalf("Children raw = %q, want rendered items", first.Raw)
	}
	if items := All(doc, func(n *html.Node) bool { return HasClass(n, "data") }); len(items) != 2 {
		t.Fatalf("All(.data) = %d, want 2", len(items))
	}
}
