// Package pipeline normalizes and scores every row of a review table.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/dataset"
)

// Policy decides what happens to a row whose review cannot be normalized.
type Policy string

const (
	Abort Policy = "abort" // The first malformed row fails the run
	Skip  Policy = "skip"  // Malformed rows are logged and left unscored
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case Abort, Skip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown row policy %q", s)
	}
}

// A Normalizer turns a review into cleaned text.
type Normalizer interface {
	NormalizeReview(r sentiprose.Review) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	Policy  Policy
	Workers int // Rows processed at once; 1 or less runs sequentially
}

// RowError is the failure of a single row.
type RowError struct {
	Row  int // Index into the table's rows
	Line int // Line in the source file
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (line %d): %v", e.Row, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Stats summarizes a run.
type Stats struct {
	Scored  int
	Skipped int
	Labels  map[sentiprose.Label]int
}

// Pipeline maps normalize then score over the rows of a table.
type Pipeline struct {
	normalizer Normalizer
	scorer     sentiprose.Scorer
	opts       Options
}

// New creates a Pipeline. An empty policy means Abort.
func New(normalizer Normalizer, scorer sentiprose.Scorer, opts Options) *Pipeline {
	if opts.Policy == "" {
		opts.Policy = Abort
	}
	return &Pipeline{normalizer: normalizer, scorer: scorer, opts: opts}
}

// Run fills the derived fields of every row. Each row is written only by its
// own task, so the result does not depend on the number of workers.
func (p *Pipeline) Run(ctx context.Context, table *dataset.Table) (Stats, error) {
	errs := make([]error, len(table.Rows))

	if p.opts.Workers <= 1 {
		for i := range table.Rows {
			if err := ctx.Err(); err != nil {
				return Stats{}, err
			}
			errs[i] = p.process(&table.Rows[i])
			if errs[i] != nil && p.opts.Policy == Abort {
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.opts.Workers)
		for i := range table.Rows {
			if gctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				errs[i] = p.process(&table.Rows[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Stats{}, err
		}
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{Labels: make(map[sentiprose.Label]int)}
	for i, err := range errs {
		row := &table.Rows[i]
		if err != nil {
			rowErr := &RowError{Row: i, Line: row.Line, Err: err}
			if p.opts.Policy == Abort {
				return stats, rowErr
			}
			slog.Warn("[Pipeline] Skipping malformed row",
				slog.Int("row", i),
				slog.Int("line", row.Line),
				slog.String("error", err.Error()))
			row.Skipped = true
			stats.Skipped++
			continue
		}
		if row.Scored {
			stats.Scored++
			stats.Labels[row.Label]++
		}
	}

	slog.Info("[Pipeline] Scored reviews",
		slog.Int("scored", stats.Scored),
		slog.Int("skipped", stats.Skipped),
		slog.Int("workers", max(p.opts.Workers, 1)))

	return stats, nil
}

func (p *Pipeline) process(row *dataset.Row) error {
	cleaned, err := p.normalizer.NormalizeReview(row.Review)
	if err != nil {
		return err
	}
	result := p.scorer.Score(cleaned)

	row.Preprocessed = cleaned
	row.Label = result.Label
	row.Polarity = result.Polarity
	row.Scored = true
	row.Skipped = false
	return nil
}
