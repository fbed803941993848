package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/paging"
)

// ListID is the id of the element holding the content list. Its data-total
// attribute carries the number of pages.
const ListID = "content-list"

// Library is the first page of the content list plus the fetcher that
// continues it.
type Library struct {
	Location *url.URL
	First    fragment.Fragment
	Fetcher  *paging.Fetcher
}

// LibraryOptions configure OpenLibrary.
type LibraryOptions struct {
	Client    librarian.Getter
	Path      string
	Threshold paging.Threshold
	Container paging.Container
	Indicator paging.Indicator
	Logger    zerolog.Logger
}

// OpenLibrary loads the first content page at opts.Path and builds a fetcher
// for the pages after it. A page without #content-list is treated as a
// single-page list of its own content.
func OpenLibrary(ctx context.Context, opts LibraryOptions) (*Library, error) {
	loc, err := url.Parse(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("parse content path %q: %w", opts.Path, err)
	}
	body, err := opts.Client.Get(ctx, loc.String())
	if err != nil {
		return nil, fmt.Errorf("load content list: %w", err)
	}

	first, total, err := splitList(body)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	fetcher := paging.New(paging.Options{
		Client:    opts.Client,
		Location:  loc,
		Total:     total,
		Threshold: opts.Threshold,
		Container: opts.Container,
		Indicator: opts.Indicator,
		Logger:    &logger,
	})
	fetcher.Subscribe(func(frag fragment.Fragment) {
		logger.Info().Int("entries", len(frag.Entries())).Int("page", fetcher.Cursor().Current).Msg("content appended")
	})
	cur := fetcher.Cursor()
	logger.Info().Str("url", loc.String()).Int("page", cur.Current).Int("total", cur.Total).Msg("content list opened")

	return &Library{Location: loc, First: first, Fetcher: fetcher}, nil
}

func splitList(body string) (fragment.Fragment, string, error) {
	doc, err := fragment.ParseDocument(body)
	if err != nil {
		return fragment.Fragment{}, "", fmt.Errorf("parse content list: %w", err)
	}
	list := fragment.FindID(doc, ListID)
	if list == nil {
		frag, err := fragment.Parse(body)
		if err != nil {
			return fragment.Fragment{}, "", fmt.Errorf("parse content list: %w", err)
		}
		return frag, "", nil
	}
	return fragment.Children(list), fragment.Attr(list, "data-total"), nil
}
