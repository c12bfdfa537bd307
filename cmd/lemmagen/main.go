// Command lemmagen generates the lemmatizer resources in data/: the noun,
// verb and adjective base-form indexes and the exception table.
//
// It reads a Hunspell en_US dictionary (the SCOWL-based en_US-web.dic) and
// the Penn Treebank sample shipped as treebank_tokens.json and
// treebank_tags.json, then run:
//
//	go run ./cmd/lemmagen -dic en_US-web.dic -treebank testdata
//
// The curated seed files next to this command are merged into the output.
// Regenerate the data files whenever a seed file changes.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultSeedDir = "cmd/lemmagen"
	defaultOutput  = "data"
	vowels         = "aeiou"
	doubled        = "bdfgklmnprstvz"
)

// classes lists the word classes in output order with their file names.
var classes = []struct {
	pos, file, label string
}{
	{"n", "lemma_noun.txt", "noun"},
	{"v", "lemma_verb.txt", "verb"},
	{"a", "lemma_adj.txt", "adjective"},
}

type exception struct {
	pos, inflected, lemma string
}

type lexicon struct {
	words map[string]string // dictionary word -> Hunspell affix flags
	index map[string]map[string]bool
	exc   []exception
	seen  map[[2]string]bool
}

func newLexicon() *lexicon {
	lx := &lexicon{
		words: make(map[string]string),
		index: make(map[string]map[string]bool),
		seen:  make(map[[2]string]bool),
	}
	for _, c := range classes {
		lx.index[c.pos] = make(map[string]bool)
	}
	return lx
}

func main() {
	dicPath := flag.String("dic", "", "Hunspell .dic file")
	treebankDir := flag.String("treebank", "", "directory with treebank_tokens.json and treebank_tags.json")
	seedDir := flag.String("seed", defaultSeedDir, "directory with seed_index.tsv and seed_exceptions.tsv")
	outDir := flag.String("output", defaultOutput, "directory for the generated files")
	flag.Parse()

	if *dicPath == "" || *treebankDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: lemmagen -dic <file> -treebank <dir> [-seed <dir>] [-output <dir>]\n")
		os.Exit(1)
	}

	lx := newLexicon()
	steps := []func() error{
		func() error { return readFile(*dicPath, lx.readDictionary) },
		func() error { return lx.readTreebank(*treebankDir) },
		func() error { return readFile(filepath.Join(*seedDir, "seed_index.tsv"), lx.readSeedIndex) },
		func() error { return readFile(filepath.Join(*seedDir, "seed_exceptions.tsv"), lx.readSeedExceptions) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			fmt.Fprintf(os.Stderr, "lemmagen: %v\n", err)
			os.Exit(1)
		}
	}

	lx.classify()
	lx.deriveExceptions()

	if err := lx.write(*outDir); err != nil {
		fmt.Fprintf(os.Stderr, "lemmagen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("nouns %d, verbs %d, adjectives %d, exceptions %d\n",
		len(lx.index["n"]), len(lx.index["v"]), len(lx.index["a"]), len(lx.exc))
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func isLowerWord(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// readDictionary keeps the all-lowercase entries of a .dic file. The first
// line is the entry count.
func (lx *lexicon) readDictionary(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		word, flags, _ := strings.Cut(line, "/")
		if !isLowerWord(word) {
			continue
		}
		lx.words[word] += flags
	}
	return scanner.Err()
}

// readTreebank adds the words tagged NN, VB, VBP or JJ, which are base forms.
func (lx *lexicon) readTreebank(dir string) error {
	var tokens []struct {
		Text string `json:"text"`
	}
	var tags []string

	for name, dst := range map[string]any{"treebank_tokens.json": &tokens, "treebank_tags.json": &tags} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, dst); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if len(tokens) != len(tags) {
		return fmt.Errorf("treebank has %d tokens but %d tags", len(tokens), len(tags))
	}

	for i, tok := range tokens {
		w := strings.ToLower(tok.Text)
		if !isLowerWord(w) {
			continue
		}
		switch tags[i] {
		case "NN":
			lx.index["n"][w] = true
		case "VB", "VBP":
			lx.index["v"][w] = true
		case "JJ":
			lx.index["a"][w] = true
		}
	}
	return nil
}

func seedFields(r io.Reader, n int, add func([]string) error) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "# ") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != n {
			return fmt.Errorf("line %d: want %d fields, got %d", line, n, len(fields))
		}
		if _, ok := classLabel(fields[0]); !ok {
			return fmt.Errorf("line %d: unknown class %q", line, fields[0])
		}
		if err := add(fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func classLabel(pos string) (string, bool) {
	for _, c := range classes {
		if c.pos == pos {
			return c.label, true
		}
	}
	return "", false
}

func (lx *lexicon) readSeedIndex(r io.Reader) error {
	return seedFields(r, 2, func(f []string) error {
		lx.index[f[0]][strings.ToLower(f[1])] = true
		return nil
	})
}

func (lx *lexicon) readSeedExceptions(r io.Reader) error {
	return seedFields(r, 3, func(f []string) error {
		lx.addException(f[0], f[1], f[2])
		return nil
	})
}

// addException records inflected -> lemma unless the form already has an
// entry for pos. Seed entries are read first and so always win.
func (lx *lexicon) addException(pos, inflected, lemma string) {
	key := [2]string{pos, inflected}
	if lx.seen[key] {
		return
	}
	lx.seen[key] = true
	lx.exc = append(lx.exc, exception{pos, inflected, lemma})
}

func (lx *lexicon) sortedWords() []string {
	words := make([]string, 0, len(lx.words))
	for w := range lx.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// cvc reports a consonant-vowel-consonant ending, where the final consonant
// doubles before a suffix (stop -> stopped).
func cvc(w string) bool {
	n := len(w)
	return n >= 3 && !strings.ContainsRune(vowels+"wxy", rune(w[n-1])) &&
		strings.ContainsRune(vowels, rune(w[n-2])) && !strings.ContainsRune(vowels, rune(w[n-3]))
}

// classify assigns dictionary words to word classes from their affix flags
// and from the inflected forms listed beside them.
func (lx *lexicon) classify() {
	has := func(w string) bool {
		_, ok := lx.words[w]
		return ok
	}
	for _, w := range lx.sortedWords() {
		flags := lx.words[w]
		last := w[len(w)-1:]

		if strings.ContainsAny(flags, "MS") {
			lx.index["n"][w] = true
		}

		switch {
		case strings.ContainsAny(flags, "DG"):
			lx.index["v"][w] = true
		case len(w) >= 3 && has(w+"ing"):
			lx.index["v"][w] = true
		case cvc(w) && (has(w+last+"ed") || has(w+last+"ing")):
			lx.index["v"][w] = true
		case strings.HasSuffix(w, "c") && (has(w+"ked") || has(w+"king")):
			lx.index["v"][w] = true
		}

		switch {
		case strings.ContainsAny(flags, "TP"):
			lx.index["a"][w] = true
		case has(w + "est"):
			lx.index["a"][w] = true
		case cvc(w) && has(w+last+"est"):
			lx.index["a"][w] = true
		case strings.HasSuffix(w, "y") && len(w) >= 3 && has(w[:len(w)-1]+"iest"):
			lx.index["a"][w] = true
		}
	}
}

// deriveExceptions adds the spelling changes the suffix rules cannot undo:
// doubled consonants (stopped, bigger), -ck (panicked) and y -> i (tried,
// happier).
func (lx *lexicon) deriveExceptions() {
	words := lx.sortedWords()
	verb, adj := lx.index["v"], lx.index["a"]

	for _, w := range words {
		for _, c := range []struct {
			pos      string
			suffixes []string
		}{
			{"v", []string{"ed", "ing"}},
			{"a", []string{"er", "est"}},
		} {
			known := lx.index[c.pos]
			for _, s := range c.suffixes {
				if !strings.HasSuffix(w, s) {
					continue
				}
				rest := w[:len(w)-len(s)]
				n := len(rest)
				if n >= 3 && rest[n-1] == rest[n-2] && strings.IndexByte(doubled, rest[n-1]) >= 0 {
					stem := rest[:n-1]
					if known[stem] && !known[rest] && !known[rest+"e"] {
						lx.addException(c.pos, w, stem)
					}
				}
				if c.pos == "v" && n >= 4 && strings.HasSuffix(rest, "ck") {
					stem := rest[:n-1]
					if verb[stem] && !verb[rest] {
						lx.addException(c.pos, w, stem)
					}
				}
			}
		}

		if strings.HasSuffix(w, "ied") && len(w) > 4 {
			stem := w[:len(w)-3] + "y"
			if verb[stem] && !verb[w[:len(w)-1]] && !verb[w[:len(w)-2]] {
				lx.addException("v", w, stem)
			}
		}
		for _, s := range []string{"ier", "iest"} {
			if strings.HasSuffix(w, s) && len(w) > len(s)+1 {
				if stem := w[:len(w)-len(s)] + "y"; adj[stem] {
					lx.addException("a", w, stem)
				}
			}
		}
	}

	// Forms produced by affix flags are not listed on their own.
	for _, w := range words {
		n := len(w)
		if n < 3 || w[n-1] != 'y' || strings.IndexByte(vowels, w[n-2]) >= 0 {
			continue
		}
		flags, stem := lx.words[w], w[:n-1]
		if strings.Contains(flags, "D") && verb[w] {
			lx.addException("v", stem+"ied", w)
		}
		if adj[w] {
			if strings.Contains(flags, "R") {
				lx.addException("a", stem+"ier", w)
			}
			if strings.Contains(flags, "T") {
				lx.addException("a", stem+"iest", w)
			}
		}
	}
}

func (lx *lexicon) write(dir string) error {
	for _, c := range classes {
		words := make([]string, 0, len(lx.index[c.pos]))
		for w := range lx.index[c.pos] {
			words = append(words, w)
		}
		sort.Strings(words)

		var b strings.Builder
		fmt.Fprintf(&b, "# Known %s base forms, one per line. Generated by cmd/lemmagen.\n", c.label)
		for _, w := range words {
			b.WriteString(w)
			b.WriteByte('\n')
		}
		if err := os.WriteFile(filepath.Join(dir, c.file), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}

	var b strings.Builder
	b.WriteString("# pos<TAB>inflected<TAB>lemma: forms checked before the suffix rules. Generated by cmd/lemmagen.\n")
	for _, e := range lx.exc {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", e.pos, e.inflected, e.lemma)
	}
	return os.WriteFile(filepath.Join(dir, "lemma_exceptions.tsv"), []byte(b.String()), 0o644)
}
