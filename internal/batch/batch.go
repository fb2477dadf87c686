// Package batch builds and normalizes many grammar files concurrently.
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/l-donovan/bnf"
	"github.com/l-donovan/bnf/internal/logger"
	"github.com/l-donovan/bnf/internal/source"
)

type Result struct {
	Path     string
	Grammar  *bnf.Grammar
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Runner struct {
	Reader  *source.Reader
	Options bnf.Options
	// Pass is applied to every grammar that builds; nil means no normalization.
	Pass    bnf.Pass
	Workers int
	Log     logger.Logger
}

// Run processes every path and returns one result per path, in input order.
// A failing file is recorded in its result and does not stop the others; only
// cancellation of ctx aborts the run.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, r.Workers))

	log := r.Log

	if log == nil {
		log = logger.Discard()
	}

	for i, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = r.process(path)

			if results[i].OK() {
				log.Debug("processed grammar", "file", path, "rules", results[i].Grammar.Len(), "duration", results[i].Duration)
			} else {
				log.Warn("grammar failed", "file", path, "error", results[i].Err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Runner) process(path string) Result {
	start := time.Now()
	g, err := r.Reader.Load(path, r.Options)

	if err == nil && r.Pass != nil {
		g, err = r.Pass(g)
	}

	if err != nil {
		g = nil
	}

	return Result{Path: path, Grammar: g, Err: err, Duration: time.Since(start)}
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result

	for _, result := range results {
		if !result.OK() {
			failed = append(failed, result)
		}
	}

	return failed
}
