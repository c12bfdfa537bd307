// Command sentiprose cleans and scores the reviews of a CSV table, prints a
// sample of the result with summaries and a rating regression, and can
// export the augmented table.
//
//	go run ./cmd/sentiprose -input reviews.csv -output scored.csv
//
// Settings come from SENTIPROSE_* variables, optionally loaded from
// config/envs/.env.<APP_ENV>. Flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/config"
	"github.com/tsawler/sentiprose/internal/dataset"
	"github.com/tsawler/sentiprose/internal/logging"
	"github.com/tsawler/sentiprose/internal/pipeline"
	"github.com/tsawler/sentiprose/internal/regression"
	"github.com/tsawler/sentiprose/internal/report"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentiprose: %v\n", err)
		os.Exit(2)
	}

	flag.StringVar(&cfg.Input, "input", cfg.Input, "CSV file with Review and Rating columns")
	flag.StringVar(&cfg.Output, "output", cfg.Output, "optional CSV file for the augmented table")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of rows processed concurrently")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sentiprose: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	logging.Init(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("[Main] Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newScorer(cfg config.Config, model *sentiprose.Model) sentiprose.Scorer {
	if cfg.Backend == config.VaderBackend {
		return sentiprose.NewVaderScorer()
	}
	sc := sentiprose.DefaultSentimentConfig()
	sc.NegationWindow = cfg.NegationWindow
	return sentiprose.NewLexiconScorer(model, sc)
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	opts := []sentiprose.ModelOpt{sentiprose.UsingStopwords(cfg.Stopwords)}
	if cfg.Lexicon != "" {
		opts = append(opts, sentiprose.UsingExternalLexicon(cfg.Lexicon))
	}
	if cfg.TaggerCorpus != "" {
		opts = append(opts, sentiprose.UsingTaggerCorpus(cfg.TaggerCorpus))
	}
	model, err := sentiprose.DefaultModel(opts...)
	if err != nil {
		return err
	}

	table, err := dataset.LoadFile(cfg.Input)
	if err != nil {
		return err
	}
	slog.Info("[Main] Loaded reviews",
		slog.String("file", cfg.Input),
		slog.Int("rows", len(table.Rows)))

	p := pipeline.New(sentiprose.NewNormalizer(model), newScorer(cfg, model), pipeline.Options{
		Policy:  cfg.RowPolicy,
		Workers: cfg.Workers,
	})
	if _, err := p.Run(ctx, table); err != nil {
		return err
	}

	if err := report.Head(out, table, cfg.Head); err != nil {
		return err
	}
	fmt.Fprintln(out)

	var summary *regression.Summary
	s, err := regression.Analyze(table.Polarities(), table.Ratings(), regression.Config{
		TestSize: cfg.TestSize,
		Seed:     cfg.Seed,
		Folds:    cfg.Folds,
	})
	switch {
	case errors.Is(err, regression.ErrTooFewSamples):
		slog.Warn("[Main] Not enough scored reviews for the regression", slog.String("error", err.Error()))
	case err != nil:
		return err
	default:
		summary = &s
	}

	if err := report.Build(table, summary).Write(out); err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := table.WriteFile(cfg.Output); err != nil {
			return err
		}
		slog.Info("[Main] Wrote augmented table", slog.String("file", cfg.Output))
	}
	return nil
}
