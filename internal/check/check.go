// Package check load-tests a Librarian server by fetching pages in parallel
// and timing each request.
package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lectern-app/lectern/internal/librarian"
)

// Options configure a load test.
type Options struct {
	Client  librarian.Getter
	Targets []string
	Workers int // parallel loads per target and cycle
	Cycles  int
	Silent  bool // suppress per-task status lines
	JSON    bool // emit one JSON line per task
	Out     io.Writer
	Logger  zerolog.Logger
}

// Response is the outcome of one task.
type Response struct {
	Success bool  `json:"success"`
	Time    int64 `json:"time"` // milliseconds
}

// Run loads every target Workers times per cycle, Cycles times over, and
// returns the collected responses. Failed loads are recorded, not returned;
// the error is non-nil only when ctx is cancelled or the options are invalid.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Client == nil {
		return Report{}, errors.New("check: client is nil")
	}
	if len(opts.Targets) == 0 {
		return Report{}, errors.New("check: no targets")
	}
	workers := max(opts.Workers, 1)
	cycles := max(opts.Cycles, 1)
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Logger.With().Str("component", "check").Logger()

	var (
		mu        sync.Mutex
		responses []Response
	)
	emit := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintln(out, line)
	}

	start := time.Now()
	taskID := 0
	for cycle := 0; cycle < cycles; cycle++ {
		log.Info().Int("cycle", cycle+1).Int("cycles", cycles).Int("workers", workers).Msg("running cycle")

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, target := range opts.Targets {
			for w := 0; w < workers; w++ {
				taskID++
				id := taskID
				g.Go(func() error {
					resp, err := load(gctx, opts.Client, target)
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					if err != nil {
						log.Warn().Err(err).Int("task", id).Str("url", target).Msg("load failed")
					}
					mu.Lock()
					responses = append(responses, resp)
					mu.Unlock()

					if !opts.Silent {
						emit(StatusLine(id, target, resp))
					}
					if opts.JSON {
						data, err := json.Marshal(resp)
						if err != nil {
							return fmt.Errorf("encode response: %w", err)
						}
						emit(string(data))
					}
					return nil
				})
			}
		}
		if err := g.Wait(); err != nil {
			return newReport(responses, time.Since(start)), err
		}
	}
	return newReport(responses, time.Since(start)), nil
}

// StatusLine formats the per-task progress line.
func StatusLine(id int, target string, resp Response) string {
	status := "success"
	if !resp.Success {
		status = "fail"
	}
	return fmt.Sprintf("----> %s[%d] %s in %dms", strings.ToUpper(status), id, target, resp.Time)
}

func load(ctx context.Context, client librarian.Getter, target string) (Response, error) {
	started := time.Now()
	_, err := client.Get(ctx, target)
	return Response{Success: err == nil, Time: time.Since(started).Milliseconds()}, err
}
