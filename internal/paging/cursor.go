package paging

import (
	"net/url"
	"strconv"
	"strings"
)

// PageParam is the query parameter carrying the page number.
const PageParam = "p"

// Cursor tracks the last page loaded against the total page count.
// Current never exceeds Total+1 and never decreases.
type Cursor struct {
	Current int
	Total   int
}

// NewCursor normalizes page and total to at least 1 and clamps page to total.
func NewCursor(page, total int) Cursor {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	return Cursor{Current: page, Total: total}
}

// AtEnd reports whether the last page has been loaded.
func (c Cursor) AtEnd() bool {
	return c.Current >= c.Total
}

// Remaining returns how many pages are left to fetch.
func (c Cursor) Remaining() int {
	if c.AtEnd() {
		return 0
	}
	return c.Total - c.Current
}

func (c *Cursor) advance() int {
	if c.Current <= c.Total {
		c.Current++
	}
	return c.Current
}

// ParseTotal reads a total-pages attribute. Absent or non-numeric values
// default to 1.
func ParseTotal(attr string) int {
	n, ok := leadingInt(attr)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// ParsePage reads the page query parameter. Absent, non-numeric or repeated
// values default to 1.
func ParsePage(values url.Values) int {
	raw, ok := values[PageParam]
	if !ok || len(raw) != 1 {
		return 1
	}
	n, ok := leadingInt(raw[0])
	if !ok || n < 1 {
		return 1
	}
	return n
}

// BaseURL strips the page parameter from loc, keeping path and the other
// query parameters.
func BaseURL(loc *url.URL) *url.URL {
	base := &url.URL{Path: loc.Path}
	if base.Path == "" {
		base.Path = "/"
	}
	q := loc.Query()
	q.Del(PageParam)
	base.RawQuery = q.Encode()
	return base
}

// PageURL returns base with the page parameter set to page.
func PageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// leadingInt parses an optionally signed run of leading digits, ignoring
// surrounding whitespace and any trailing text ("3rd" is 3).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
