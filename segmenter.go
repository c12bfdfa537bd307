package sentiprose

import (
	"fmt"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// punktSentenceTokenizer is an extension of the Go implementation of the Punkt
// sentence tokenizer, with a few minor improvements (see https://github.com/neurosnap/sentences/pull/18).
type punktSentenceTokenizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// newPunktSentenceTokenizer creates a new punktSentenceTokenizer and loads
// its English model.
func newPunktSentenceTokenizer() (*punktSentenceTokenizer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: punkt model: %w", ErrResourceLoad, err)
	}
	return &punktSentenceTokenizer{tokenizer: tokenizer}, nil
}

// segment splits text into sentences. Offsets index text, which is expected
// to be normalized already.
func (p *punktSentenceTokenizer) segment(text string) []Sentence {
	var sents []Sentence

	cursor := 0
	for _, s := range p.tokenizer.Tokenize(text) {
		sent := strings.TrimSpace(s.Text)
		if sent == "" {
			continue
		}
		start := cursor
		if idx := strings.Index(text[cursor:], sent); idx >= 0 {
			start = cursor + idx
		}
		end := start + len(sent)
		if end > len(text) {
			end = len(text)
		}
		sents = append(sents, Sentence{Text: sent, Start: start, End: end})
		cursor = end
	}

	return sents
}
