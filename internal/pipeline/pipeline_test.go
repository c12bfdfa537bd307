package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/dataset"
)

var (
	modelOnce sync.Once
	model     *sentiprose.Model
	modelErr  error
)

func defaultModel(t *testing.T) *sentiprose.Model {
	t.Helper()
	modelOnce.Do(func() {
		model, modelErr = sentiprose.DefaultModel()
	})
	if modelErr != nil {
		t.Fatalf("DefaultModel: %v", modelErr)
	}
	return model
}

func loadTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	table, err := dataset.Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return table
}

var reviews = []string{
	"The shoes were absolutely amazing and I loved them",
	"Terrible quality, the sole fell off after a week.",
	"It's okay. Not great, not bad.",
	"Battery life is excellent and charging is fast!",
	"Worst purchase ever. Do not buy!!!",
	"!!! ... ,,,",
	"Comfortable fit, nice colour, good price.",
	"The box arrived damaged but the product works.",
	"I hate how slow the delivery was",
	"Perfect gift for my dad :)",
}

func reviewCSV(extra ...string) string {
	var sb strings.Builder
	sb.WriteString("Review,Rating\n")
	for i, r := range append(append([]string{}, reviews...), extra...) {
		fmt.Fprintf(&sb, "%q,%d\n", r, i%5+1)
	}
	return sb.String()
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected Policy
		wantErr  bool
	}{
		{"abort", Abort, false},
		{" Skip ", Skip, false},
		{"retry", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.expected {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRunScoresEveryRow(t *testing.T) {
	m := defaultModel(t)
	table := loadTable(t, reviewCSV())
	p := New(sentiprose.NewNormalizer(m), sentiprose.NewLexiconScorer(m, sentiprose.DefaultSentimentConfig()), Options{})

	stats, err := p.Run(context.Background(), table)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Scored != len(reviews) || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	total := 0
	for _, n := range stats.Labels {
		total += n
	}
	if total != stats.Scored {
		t.Errorf("label counts %v do not add up to %d", stats.Labels, stats.Scored)
	}

	first := table.Rows[0]
	if first.Preprocessed != "shoe absolutely amazing love" || first.Label != sentiprose.Positive {
		t.Errorf("first row = %+v", first)
	}
	punct := table.Rows[5]
	if punct.Preprocessed != "" || punct.Label != sentiprose.Neutral || punct.Polarity != 0 {
		t.Errorf("punctuation-only row = %+v", punct)
	}
	for i, row := range table.Rows {
		if row.Label != sentiprose.LabelFor(row.Polarity) {
			t.Errorf("row %d label %s does not match polarity %v", i, row.Label, row.Polarity)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	m := defaultModel(t)
	n := sentiprose.NewNormalizer(m)
	scorer := sentiprose.NewLexiconScorer(m, sentiprose.DefaultSentimentConfig())

	var extra []string
	for i := 0; i < 40; i++ {
		extra = append(extra, reviews[i%len(reviews)]+fmt.Sprintf(" Review number %d.", i))
	}
	input := reviewCSV(extra...) + "NA,3\n"

	sequential := loadTable(t, input)
	if _, err := New(n, scorer, Options{Policy: Skip, Workers: 1}).Run(context.Background(), sequential); err != nil {
		t.Fatalf("sequential Run: %v", err)
	}

	for _, workers := range []int{2, 4, 16} {
		parallel := loadTable(t, input)
		if _, err := New(n, scorer, Options{Policy: Skip, Workers: workers}).Run(context.Background(), parallel); err != nil {
			t.Fatalf("parallel Run: %v", err)
		}
		if !reflect.DeepEqual(parallel.Rows, sequential.Rows) {
			t.Errorf("workers=%d: rows differ from the sequential run", workers)
		}
	}
}

func TestRowPolicy(t *testing.T) {
	m := defaultModel(t)
	n := sentiprose.NewNormalizer(m)
	scorer := sentiprose.NewLexiconScorer(m, sentiprose.DefaultSentimentConfig())
	input := "Review,Rating\ngood,5\nNA,1\nbad,2\nnull,3\n"

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("abort/workers=%d", workers), func(t *testing.T) {
			table := loadTable(t, input)
			_, err := New(n, scorer, Options{Policy: Abort, Workers: workers}).Run(context.Background(), table)

			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("err = %v, want *RowError", err)
			}
			if rowErr.Row != 1 || rowErr.Line != 3 {
				t.Errorf("RowError = %+v, want row 1 line 3", rowErr)
			}
			if !errors.Is(err, sentiprose.ErrInput) {
				t.Errorf("err = %v, want ErrInput", err)
			}
		})

		t.Run(fmt.Sprintf("skip/workers=%d", workers), func(t *testing.T) {
			table := loadTable(t, input)
			stats, err := New(n, scorer, Options{Policy: Skip, Workers: workers}).Run(context.Background(), table)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if stats.Scored != 2 || stats.Skipped != 2 {
				t.Errorf("stats = %+v, want 2 scored, 2 skipped", stats)
			}
			for i, want := range []bool{false, true, false, true} {
				if table.Rows[i].Skipped != want || table.Rows[i].Scored == want {
					t.Errorf("row %d = %+v", i, table.Rows[i])
				}
			}
			if got := table.Ratings(); !reflect.DeepEqual(got, []float64{5, 2}) {
				t.Errorf("Ratings = %v, want [5 2]", got)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	m := defaultModel(t)
	p := New(sentiprose.NewNormalizer(m), sentiprose.NewVaderScorer(), Options{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		p.opts.Workers = workers
		if _, err := p.Run(ctx, loadTable(t, reviewCSV())); !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}
