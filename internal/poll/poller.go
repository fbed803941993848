package poll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
)

// Target receives the result of each poll. Replace is called only on
// success; on failure the previous content is left as it was.
type Target interface {
	Replace(frag fragment.Fragment)
	Fail(err error)
}

// Poller refreshes one fragment on a chained timeout: the next poll is
// scheduled only after the previous one completes, so polls never overlap and
// slow responses delay the schedule instead of stacking up.
type Poller struct {
	name     string
	ref      string
	interval time.Duration
	client   librarian.Getter
	target   Target
	log      zerolog.Logger
}

// New builds a Poller for ref. An empty ref disables it.
func New(name, ref string, interval time.Duration, client librarian.Getter, target Target, logger zerolog.Logger) *Poller {
	return &Poller{
		name:     name,
		ref:      strings.TrimSpace(ref),
		interval: interval,
		client:   client,
		target:   target,
		log:      logger.With().Str("component", "poll").Str("poller", name).Logger(),
	}
}

// Name identifies the poller in logs.
func (p *Poller) Name() string {
	return p.name
}

// Enabled reports whether the poller has something to fetch.
func (p *Poller) Enabled() bool {
	return p.ref != "" && p.interval > 0 && p.client != nil && p.target != nil
}

// Run polls until ctx is cancelled. The first fetch happens one interval
// after Run starts. A disabled poller returns immediately.
func (p *Poller) Run(ctx context.Context) error {
	if !p.Enabled() {
		p.log.Debug().Msg("poller disabled")
		return nil
	}
	p.log.Info().Dur("interval", p.interval).Str("url", p.ref).Msg("poller started")

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("poller stopped")
			return nil
		case <-timer.C:
		}
		_ = p.Poll(ctx)
		timer.Reset(p.interval)
	}
}

// Poll performs one fetch and renders the result into the target.
func (p *Poller) Poll(ctx context.Context) error {
	body, err := p.client.Get(ctx, p.ref)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.target.Fail(err)
		p.log.Warn().Err(err).Str("url", p.ref).Msg("poll failed")
		return fmt.Errorf("poll %s: %w", p.name, err)
	}
	frag, err := fragment.Parse(body)
	if err != nil {
		p.target.Fail(err)
		p.log.Warn().Err(err).Str("url", p.ref).Msg("poll response unreadable")
		return fmt.Errorf("poll %s: %w", p.name, err)
	}
	p.target.Replace(frag)
	return nil
}
