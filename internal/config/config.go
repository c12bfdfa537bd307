package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/sentiprose"
	"github.com/tsawler/sentiprose/internal/pipeline"
)

// ErrInvalid reports a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Backend names the sentiment scorer.
type Backend string

const (
	LexiconBackend Backend = "lexicon"
	VaderBackend   Backend = "vader"
)

// Config holds the settings of one run.
type Config struct {
	Input  string // CSV with Review and Rating columns
	Output string // Optional CSV for the augmented table

	RowPolicy pipeline.Policy
	Workers   int

	Backend        Backend
	Stopwords      sentiprose.StopwordSource
	Lexicon        string // Optional external JSON lexicon
	TaggerCorpus   string // Optional tagged corpus
	NegationWindow int

	TestSize float64
	Seed     int64
	Folds    int

	Head     int
	LogLevel slog.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		RowPolicy:      pipeline.Abort,
		Workers:        1,
		Backend:        LexiconBackend,
		Stopwords:      sentiprose.NLTKStopwords,
		NegationWindow: 3,
		TestSize:       0.2,
		Seed:           42,
		Folds:          5,
		Head:           50,
		LogLevel:       slog.LevelInfo,
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads SENTIPROSE_* variables through lookup, falling back to
// Default for anything unset or blank.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SENTIPROSE_INPUT"); ok {
		cfg.Input = v
	}
	if v, ok := get("SENTIPROSE_OUTPUT"); ok {
		cfg.Output = v
	}
	if v, ok := get("SENTIPROSE_LEXICON"); ok {
		cfg.Lexicon = v
	}
	if v, ok := get("SENTIPROSE_TAGGER_CORPUS"); ok {
		cfg.TaggerCorpus = v
	}

	if v, ok := get("SENTIPROSE_ROW_POLICY"); ok {
		policy, err := pipeline.ParsePolicy(v)
		if err != nil {
			return Config{}, invalid("SENTIPROSE_ROW_POLICY", v, err)
		}
		cfg.RowPolicy = policy
	}
	if v, ok := get("SENTIPROSE_SENTIMENT_BACKEND"); ok {
		switch b := Backend(strings.ToLower(v)); b {
		case LexiconBackend, VaderBackend:
			cfg.Backend = b
		default:
			return Config{}, invalid("SENTIPROSE_SENTIMENT_BACKEND", v, errors.New("want lexicon or vader"))
		}
	}
	if v, ok := get("SENTIPROSE_STOPWORDS"); ok {
		source, err := sentiprose.ParseStopwordSource(v)
		if err != nil {
			return Config{}, invalid("SENTIPROSE_STOPWORDS", v, err)
		}
		cfg.Stopwords = source
	}
	if v, ok := get("SENTIPROSE_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, invalid("SENTIPROSE_LOG_LEVEL", v, err)
		}
	}

	ints := []struct {
		key string
		dst *int
		min int
	}{
		{"SENTIPROSE_WORKERS", &cfg.Workers, 1},
		{"SENTIPROSE_NEGATION_WINDOW", &cfg.NegationWindow, 0},
		{"SENTIPROSE_CV_FOLDS", &cfg.Folds, 2},
		{"SENTIPROSE_HEAD", &cfg.Head, 0},
	}
	for _, field := range ints {
		v, ok := get(field.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, invalid(field.key, v, err)
		}
		if n < field.min {
			return Config{}, invalid(field.key, v, fmt.Errorf("must be at least %d", field.min))
		}
		*field.dst = n
	}

	if v, ok := get("SENTIPROSE_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, invalid("SENTIPROSE_SEED", v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := get("SENTIPROSE_TEST_SIZE"); ok {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, invalid("SENTIPROSE_TEST_SIZE", v, err)
		}
		if !(size > 0 && size < 1) {
			return Config{}, invalid("SENTIPROSE_TEST_SIZE", v, errors.New("must be between 0 and 1"))
		}
		cfg.TestSize = size
	}

	return cfg, nil
}

// Validate checks the settings that flags may still change after FromEnv.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: no input file (set SENTIPROSE_INPUT or -input)", ErrInvalid)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

func invalid(key, value string, err error) error {
	return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, value, err)
}
