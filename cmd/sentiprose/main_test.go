package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/config"
	"github.com/tsawler/sentiprose/internal/dataset"
	"github.com/tsawler/sentiprose/internal/pipeline"
)

var reviews = []string{
	"The shoes were absolutely amazing and I loved them",
	"Terrible quality, the sole fell off after a week",
	"Good value for the price",
	"Not bad, but the laces are awful",
	"Great fit and very comfortable",
	"The box arrived on Tuesday",
	"Horrible smell and poor stitching",
	"I love the colour, excellent purchase",
}

func writeReviews(t *testing.T, n int, extra string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Id,Review,Rating\n")
	for i := 0; i < n; i++ {
		text := reviews[i%len(reviews)]
		fmt.Fprintf(&b, "%d,%q,%d\n", i+1, text, i%5+1)
	}
	b.WriteString(extra)

	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeReviews(t, 40, "")
	cfg.Output = filepath.Join(t.TempDir(), "scored.csv")
	cfg.Workers = 4

	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Preprocessed_Review", "Rating distribution", "Linear regression of rating on polarity"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output is missing %q", want)
		}
	}

	table, err := dataset.LoadFile(cfg.Output)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	wantHeader := append([]string{"Id", "Review", "Rating"}, dataset.DerivedColumns...)
	if strings.Join(table.Header, ",") != strings.Join(wantHeader, ",") {
		t.Errorf("Header = %q, want %q", table.Header, wantHeader)
	}
	if len(table.Rows) != 40 {
		t.Errorf("exported %d rows, want 40", len(table.Rows))
	}
	if got := table.Records[0][3]; got != "shoe absolutely amazing love" {
		t.Errorf("first preprocessed review = %q", got)
	}
	if got := table.Records[0][4]; got != string(sentiprose.Positive) {
		t.Errorf("first label = %q, want Positive", got)
	}
}

func TestRunRowPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeReviews(t, 20, "21,NA,3\n")

	err := run(context.Background(), cfg, &bytes.Buffer{})
	var rowErr *pipeline.RowError
	if !errors.As(err, &rowErr) || !errors.Is(err, sentiprose.ErrInput) {
		t.Fatalf("run = %v, want a row error wrapping ErrInput", err)
	}
	if rowErr.Line != 22 {
		t.Errorf("Line = %d, want 22", rowErr.Line)
	}

	cfg.RowPolicy = pipeline.Skip
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run with skip: %v", err)
	}
	if !strings.Contains(out.String(), "Reviews skipped:") {
		t.Errorf("report has no skipped count:\n%s", out.String())
	}
}

func TestRunTooFewReviews(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeReviews(t, 3, "")
	cfg.Backend = config.VaderBackend

	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "Linear regression") {
		t.Error("regression reported for three reviews")
	}
	if !strings.Contains(out.String(), "Rating by sentiment label") {
		t.Error("label summary missing")
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input = filepath.Join(t.TempDir(), "missing.csv")
	if err := run(context.Background(), cfg, &bytes.Buffer{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run = %v, want a not-exist error", err)
	}
}
