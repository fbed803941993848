package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/paging"
)

// DumpOptions configure Dump.
type DumpOptions struct {
	Client librarian.Getter
	Path   string
	Out    io.Writer
	Logger zerolog.Logger
}

// Dump writes every entry of the content list at opts.Path to opts.Out,
// following pages until the end. Failed or empty pages are reported on
// opts.Out and skipped.
func Dump(ctx context.Context, opts DumpOptions) error {
	w := &entryWriter{out: opts.Out}
	lib, err := OpenLibrary(ctx, LibraryOptions{
		Client:    opts.Client,
		Path:      opts.Path,
		Container: w,
		Indicator: w,
		Logger:    opts.Logger,
	})
	if err != nil {
		return err
	}
	w.Append(lib.First)

	for !lib.Fetcher.Ended() {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := lib.Fetcher.LoadMore(ctx)
		if err != nil && res.Outcome != paging.OutcomeFailed {
			return err
		}
	}
	return w.err
}

type entryWriter struct {
	out io.Writer
	err error
}

func (w *entryWriter) Append(frag fragment.Fragment) {
	for _, e := range frag.Entries() {
		title := e.Title
		if title == "" && len(e.Lines) > 0 {
			title = e.Lines[0]
		}
		line := title
		if e.Href != "" {
			line += " <" + e.Href + ">"
		}
		w.printf("%s\n", line)
		for _, detail := range e.Lines {
			if detail != title {
				w.printf("    %s\n", detail)
			}
		}
	}
}

func (w *entryWriter) Loading(page int) {
	w.printf("-- page %d --\n", page)
}

func (w *entryWriter) Loaded(page int) {}

func (w *entryWriter) End() {
	w.printf("-- end --\n")
}

func (w *entryWriter) Empty(page int) {
	w.printf("-- page %d is empty --\n", page)
}

func (w *entryWriter) Failed(page int, err error) {
	w.printf("-- page %d failed: %s --\n", page, strings.TrimSpace(err.Error()))
}

func (w *entryWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
