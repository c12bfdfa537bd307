package sentiprose

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation is the set of ASCII punctuation and symbol characters.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// A Document is the result of normalizing one review.
type Document struct {
	Text      string     // The NFC-normalized input; offsets index this text
	Sentences []Sentence // Sentences found by the segmenter
	Tokens    []Token    // Every token with its tag and lemma
	Terms     []string   // Punctuation-stripped lemmas that are not stopwords, in order
	Cleaned   string     // The non-empty terms joined by single spaces
}

// Normalizer turns a raw review into cleaned text: it segments, tokenizes,
// tags and lemmatizes, then strips punctuation and removes stopwords.
type Normalizer struct {
	model *Model
}

// NewNormalizer creates a Normalizer over the model's resources.
func NewNormalizer(model *Model) *Normalizer {
	return &Normalizer{model: model}
}

// Analyze runs every normalization stage over text and keeps the
// intermediate results.
func (n *Normalizer) Analyze(text string) *Document {
	text = norm.NFC.String(sanitizer.Replace(text))
	doc := &Document{Text: text}

	var tokens []*Token
	for _, sent := range n.model.segmenter.segment(text) {
		doc.Sentences = append(doc.Sentences, sent)
		for _, tok := range n.model.tokenizer.Tokenize(sent.Text) {
			tok.Start += sent.Start
			tok.End += sent.Start
			tokens = append(tokens, tok)
		}
	}

	// Tags depend on the neighbouring words, so the whole text is tagged at
	// once before any lemma is chosen.
	n.model.tagger.tag(tokens)

	doc.Tokens = make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		tok.Lemma = n.model.lemmatizer.lemmatize(tok.Text, CoarseTag(tok.Tag))
		doc.Tokens = append(doc.Tokens, *tok)

		term := stripPunctuation(tok.Lemma)
		if n.model.stopwords.Contains(term) {
			continue
		}
		doc.Terms = append(doc.Terms, term)
	}
	doc.Cleaned = joinTerms(doc.Terms)

	return doc
}

// Normalize returns the cleaned form of text.
func (n *Normalizer) Normalize(text string) string {
	return n.Analyze(text).Cleaned
}

// NormalizeReview returns the cleaned form of a review, or ErrInput when the
// review is missing.
func (n *Normalizer) NormalizeReview(r Review) (string, error) {
	if !r.Valid {
		return "", ErrInput
	}
	return n.Normalize(r.Text), nil
}

// stripPunctuation removes punctuation and ASCII symbol characters from s.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, s)
}

// joinTerms joins terms with single spaces. Terms emptied by punctuation
// stripping stay in the sequence but add nothing to the joined text.
func joinTerms(terms []string) string {
	var sb strings.Builder
	for _, term := range terms {
		if term == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(term)
	}
	return sb.String()
}
