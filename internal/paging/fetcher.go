package paging

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
)

// Outcome classifies what a trigger did.
type Outcome int

const (
	// OutcomeIdle means the scroll position had not crossed the threshold.
	OutcomeIdle Outcome = iota
	// OutcomeBusy means a request was already in flight; the trigger was dropped.
	OutcomeBusy
	// OutcomeEnd means every page is loaded; no request was issued.
	OutcomeEnd
	// OutcomeAppended means a page was fetched and appended.
	OutcomeAppended
	// OutcomeEmpty means the server answered with an empty page.
	OutcomeEmpty
	// OutcomeFailed means the request failed; the page is skipped.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeBusy:
		return "busy"
	case OutcomeEnd:
		return "end"
	case OutcomeAppended:
		return "appended"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports the outcome of one trigger.
type Result struct {
	Outcome  Outcome
	Page     int
	URL      string
	Fragment fragment.Fragment
}

// Container receives appended pages.
type Container interface {
	Append(frag fragment.Fragment)
}

// Indicator renders loading, end-of-content and notice states.
type Indicator interface {
	Loading(page int)
	Loaded(page int)
	End()
	Empty(page int)
	Failed(page int, err error)
}

// Options configure a Fetcher.
type Options struct {
	Client    librarian.Getter
	Location  *url.URL // page the list was loaded from; its "p" is the current page
	Total     string   // raw total-pages attribute
	Threshold Threshold
	Container Container
	Indicator Indicator
	Logger    *zerolog.Logger
}

// Fetcher loads successive pages of a content list and appends them.
type Fetcher struct {
	client    librarian.Getter
	base      *url.URL
	threshold Threshold
	container Container
	indicator Indicator
	log       zerolog.Logger

	gate Gate

	mu        sync.Mutex
	cursor    Cursor
	ended     bool
	listeners []func(fragment.Fragment)
}

// New builds a Fetcher from the page location and total-pages attribute.
func New(opts Options) *Fetcher {
	loc := opts.Location
	if loc == nil {
		loc = &url.URL{Path: "/"}
	}
	threshold := opts.Threshold
	if threshold == nil {
		threshold = DefaultThreshold()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	container := opts.Container
	if container == nil {
		container = discard{}
	}
	indicator := opts.Indicator
	if indicator == nil {
		indicator = discard{}
	}
	return &Fetcher{
		client:    opts.Client,
		base:      BaseURL(loc),
		threshold: threshold,
		container: container,
		indicator: indicator,
		log:       logger.With().Str("component", "paging").Logger(),
		cursor:    NewCursor(ParsePage(loc.Query()), ParseTotal(opts.Total)),
	}
}

// Subscribe registers fn to receive every appended fragment.
func (f *Fetcher) Subscribe(fn func(fragment.Fragment)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Cursor returns the current page position.
func (f *Fetcher) Cursor() Cursor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Ended reports whether the end of content has been reached. Once true it
// stays true.
func (f *Fetcher) Ended() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended
}

// Busy reports whether a page request is in flight.
func (f *Fetcher) Busy() bool {
	return f.gate.Busy()
}

// Trigger loads the next page when v has crossed the threshold.
func (f *Fetcher) Trigger(ctx context.Context, v Viewport) (Result, error) {
	if f.Ended() {
		return Result{Outcome: OutcomeEnd}, nil
	}
	if !f.threshold.Reached(v) {
		return Result{Outcome: OutcomeIdle}, nil
	}
	return f.LoadMore(ctx)
}

// LoadMore loads the next page regardless of scroll position.
func (f *Fetcher) LoadMore(ctx context.Context) (Result, error) {
	if !f.gate.TryAcquire() {
		return Result{Outcome: OutcomeBusy}, nil
	}
	defer f.gate.Release()

	page, done := f.next()
	if done {
		return Result{Outcome: OutcomeEnd}, nil
	}
	ref := PageURL(f.base, page)
	res := Result{Page: page, URL: ref}

	f.indicator.Loading(page)
	body, err := f.client.Get(ctx, ref)
	if err != nil {
		f.indicator.Failed(page, err)
		f.log.Warn().Err(err).Int("page", page).Str("url", ref).Msg("page request failed")
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("load page %d: %w", page, err)
	}

	frag, err := fragment.Parse(body)
	if err != nil {
		f.indicator.Failed(page, err)
		f.log.Warn().Err(err).Int("page", page).Str("url", ref).Msg("page response unreadable")
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("load page %d: %w", page, err)
	}
	if frag.Empty() {
		f.indicator.Empty(page)
		f.log.Info().Int("page", page).Str("url", ref).Msg("empty page")
		res.Outcome = OutcomeEmpty
		return res, nil
	}

	f.container.Append(frag)
	f.indicator.Loaded(page)
	for _, fn := range f.subscribers() {
		fn(frag)
	}
	f.log.Debug().Int("page", page).Int("elements", len(frag.Elements())).Msg("page appended")

	res.Outcome = OutcomeAppended
	res.Fragment = frag
	if f.Cursor().AtEnd() {
		f.finish()
	}
	return res, nil
}

// next advances the cursor, or marks the end when no pages remain. The
// cursor is never rolled back, so a failed page is not requested again.
func (f *Fetcher) next() (page int, done bool) {
	f.mu.Lock()
	if f.ended {
		f.mu.Unlock()
		return 0, true
	}
	if f.cursor.AtEnd() {
		f.mu.Unlock()
		f.finish()
		return 0, true
	}
	page = f.cursor.advance()
	f.mu.Unlock()
	return page, false
}

func (f *Fetcher) finish() {
	f.mu.Lock()
	already := f.ended
	f.ended = true
	f.mu.Unlock()
	if !already {
		f.indicator.End()
	}
}

func (f *Fetcher) subscribers() []func(fragment.Fragment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]func(fragment.Fragment), len(f.listeners))
	copy(out, f.listeners)
	return out
}

type discard struct{}

func (discard) Append(fragment.Fragment) {}
func (discard) Loading(int)              {}
func (discard) Loaded(int)               {}
func (discard) End()                     {}
func (discard) Empty(int)                {}
func (discard) Failed(int, error)        {}
