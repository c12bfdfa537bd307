package sentiprose

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tsawler/sentiprose/data"
)

// A Model holds the linguistic resources shared by the normalizer and the
// scorers. It is built once and never modified afterwards, so one Model may
// serve many goroutines.
type Model struct {
	Name string

	segmenter  *punktSentenceTokenizer
	tokenizer  Tokenizer
	tagger     *perceptronTagger
	lemmatizer *lemmatizer
	stopwords  StopwordSet
	lexicon    *SentimentLexicon
}

// A ModelOpt represents a setting that changes the model loading process.
type ModelOpt func(opts *ModelOpts)

// ModelOpts controls the Model loading process:
type ModelOpts struct {
	Stopwords       StopwordSource // Which stopword list to use
	ExternalLexicon string         // Optional JSON lexicon merged over the base lexicon
	TaggerCorpus    string         // Optional word/TAG corpus to train the tagger on
	Training        TrainingConfig // Tagger training settings, used with TaggerCorpus
	Tokenizer       Tokenizer      // Tokenizer to use
}

// UsingStopwords selects the stopword list.
func UsingStopwords(source StopwordSource) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Stopwords = source
	}
}

// UsingExternalLexicon merges the JSON lexicon at path into the sentiment
// lexicon.
func UsingExternalLexicon(path string) ModelOpt {
	return func(opts *ModelOpts) {
		opts.ExternalLexicon = path
	}
}

// UsingTaggerCorpus trains the tagger on the corpus at path instead of
// loading the pretrained model.
func UsingTaggerCorpus(path string) ModelOpt {
	return func(opts *ModelOpts) {
		opts.TaggerCorpus = path
	}
}

// UsingTraining overrides the settings used to train on a tagger corpus.
func UsingTraining(cfg TrainingConfig) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Training = cfg
	}
}

// UsingTokenizer specifies the Tokenizer to use.
func UsingTokenizer(tokenizer Tokenizer) ModelOpt {
	return func(opts *ModelOpts) {
		opts.Tokenizer = tokenizer
	}
}

// DefaultModel loads the embedded English resources.
func DefaultModel(opts ...ModelOpt) (*Model, error) {
	return ModelFromFS("en", data.FS, opts...)
}

// ModelFromDisk loads a Model from the user-provided location.
func ModelFromDisk(path string, opts ...ModelOpt) (*Model, error) {
	return ModelFromFS(filepath.Base(path), os.DirFS(path), opts...)
}

// ModelFromFS loads a Model from the resource files at the root of filesys.
// Any failure is an ErrResourceLoad.
func ModelFromFS(name string, filesys fs.FS, opts ...ModelOpt) (*Model, error) {
	base := ModelOpts{
		Stopwords: NLTKStopwords,
		Training:  DefaultTrainingConfig(),
		Tokenizer: NewIterTokenizer(),
	}
	for _, applyOpt := range opts {
		applyOpt(&base)
	}

	model := &Model{Name: name, tokenizer: base.Tokenizer}

	var err error
	if model.segmenter, err = newPunktSentenceTokenizer(); err != nil {
		return nil, err
	}
	if model.tagger, err = loadTagger(filesys, base); err != nil {
		return nil, resourceError("tagger", err)
	}
	if model.lemmatizer, err = loadLemmatizer(filesys); err != nil {
		return nil, resourceError("lemmatizer", err)
	}
	if model.stopwords, err = loadStopwords(filesys, base.Stopwords); err != nil {
		return nil, resourceError("stopwords", err)
	}
	if model.lexicon, err = loadSentimentLexicon(filesys); err != nil {
		return nil, resourceError("sentiment lexicon", err)
	}
	if base.ExternalLexicon != "" {
		if err = model.lexicon.LoadExternalLexicon(base.ExternalLexicon); err != nil {
			return nil, resourceError("sentiment lexicon", err)
		}
	}

	return model, nil
}

func resourceError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrResourceLoad, what, err)
}

// taggerDir holds the pretrained averaged perceptron: gob-encoded weights,
// tag dictionary and class list.
const taggerDir = "AveragedPerceptron"

func loadTagger(filesys fs.FS, opts ModelOpts) (*perceptronTagger, error) {
	if opts.TaggerCorpus != "" {
		return trainTagger(opts.TaggerCorpus, opts.Training)
	}

	var (
		weights map[string]map[string]float64
		tags    map[string]string
		classes []string
	)
	for _, part := range []struct {
		name string
		dst  any
	}{
		{"classes.gob", &classes},
		{"tags.gob", &tags},
		{"weights.gob", &weights},
	} {
		if err := decodeGob(filesys, path.Join(taggerDir, part.name), part.dst); err != nil {
			return nil, err
		}
	}
	if len(classes) == 0 || len(weights) == 0 {
		return nil, fmt.Errorf("%s: model has no classes or weights", taggerDir)
	}

	return newPretrainedTagger(weights, tags, classes), nil
}

func decodeGob(filesys fs.FS, name string, dst any) error {
	f, err := filesys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// trainTagger fits a fresh tagger on the word/TAG corpus at corpusPath.
func trainTagger(corpusPath string, cfg TrainingConfig) (*perceptronTagger, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	corpus, err := readTaggedCorpus(f)
	if err != nil {
		return nil, err
	}
	tagger := newPerceptronTagger()
	if err := tagger.train(corpus, cfg); err != nil {
		return nil, err
	}
	return tagger, nil
}

func loadLemmatizer(filesys fs.FS) (*lemmatizer, error) {
	l := newLemmatizer()

	files := map[PartOfSpeech]string{
		Noun:  "lemma_noun.txt",
		Verb:  "lemma_verb.txt",
		Other: "lemma_adj.txt",
	}
	for pos, name := range files {
		words, err := readWordList(filesys, name)
		if err != nil {
			return nil, err
		}
		for _, word := range words {
			l.index[pos][word] = true
		}
	}

	rows, err := readTable(filesys, "lemma_exceptions.tsv", 3)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		var pos PartOfSpeech
		switch row.fields[0] {
		case "n":
			pos = Noun
		case "v":
			pos = Verb
		case "a":
			pos = Other
		default:
			return nil, fmt.Errorf("lemma_exceptions.tsv:%d: unknown class %q", row.line, row.fields[0])
		}
		inflected := strings.ToLower(row.fields[1])
		l.exceptions[pos][inflected] = append(l.exceptions[pos][inflected], strings.ToLower(row.fields[2]))
	}

	return l, nil
}

func loadStopwords(filesys fs.FS, source StopwordSource) (StopwordSet, error) {
	switch source {
	case LibraryStopwords:
		return libraryStopwords{langCode: "en"}, nil
	case NLTKStopwords:
		words, err := readWordList(filesys, "stopwords_en.txt")
		if err != nil {
			return nil, err
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("stopwords_en.txt is empty")
		}
		set := make(wordSet, len(words))
		for _, word := range words {
			set[word] = true
		}
		return set, nil
	default:
		return nil, fmt.Errorf("unknown stopword source %q", source)
	}
}

// tableRow is one non-comment line of a tab-separated resource.
type tableRow struct {
	line   int
	fields []string
}

// readTable reads a tab-separated resource with n columns per line. Blank
// lines and lines starting with "# " are skipped.
func readTable(filesys fs.FS, name string, n int) ([]tableRow, error) {
	f, err := filesys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []tableRow
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "# ") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != n {
			return nil, fmt.Errorf("%s:%d: want %d fields, got %d", name, line, n, len(fields))
		}
		rows = append(rows, tableRow{line: line, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rows, nil
}

// readWordList reads one lower-cased word per line.
func readWordList(filesys fs.FS, name string) ([]string, error) {
	rows, err := readTable(filesys, name, 1)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(rows))
	for _, row := range rows {
		words = append(words, strings.ToLower(strings.TrimSpace(row.fields[0])))
	}
	return words, nil
}
