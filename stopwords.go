package sentiprose

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

// StopwordSource selects the English stopword list.
type StopwordSource string

const (
	// NLTKStopwords is the embedded 179-word list used for review preprocessing.
	NLTKStopwords StopwordSource = "nltk"
	// LibraryStopwords defers to the larger list of github.com/bbalet/stopwords.
	LibraryStopwords StopwordSource = "bbalet"
)

// ParseStopwordSource validates a source name.
func ParseStopwordSource(s string) (StopwordSource, error) {
	switch src := StopwordSource(strings.ToLower(strings.TrimSpace(s))); src {
	case NLTKStopwords, LibraryStopwords:
		return src, nil
	default:
		return "", fmt.Errorf("unknown stopword source %q", s)
	}
}

// A StopwordSet reports whether a word should be dropped. Matching is
// case-insensitive.
type StopwordSet interface {
	Contains(word string) bool
}

// wordSet is a fixed list of lower-case stopwords.
type wordSet map[string]bool

func (ws wordSet) Contains(word string) bool {
	return ws[strings.ToLower(word)]
}

// libraryStopwords queries the stopwords library one word at a time. The
// library does not export its lists, so a word is a stopword when cleaning
// it leaves nothing behind.
type libraryStopwords struct {
	langCode string
}

func (ls libraryStopwords) Contains(word string) bool {
	if !strings.ContainsFunc(word, unicode.IsLetter) {
		return false
	}
	cleaned := stopwords.CleanString(strings.ToLower(word), ls.langCode, false)
	return strings.TrimSpace(cleaned) == ""
}
