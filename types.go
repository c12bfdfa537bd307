package sentiprose

import (
	"errors"
	"strings"
)

var (
	// ErrInput reports a review value that is not text, such as a missing cell.
	ErrInput = errors.New("sentiprose: review is not text")

	// ErrResourceLoad reports a linguistic resource that failed to initialize.
	ErrResourceLoad = errors.New("sentiprose: resource failed to load")
)

// A Token represents an individual token of text such as a word or punctuation
// symbol.
type Token struct {
	Text  string // The token's actual content.
	Tag   string // The token's Penn Treebank part-of-speech tag.
	Lemma string // The token's base form.
	Start int    // Start position in the normalized text
	End   int    // End position in the normalized text
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text  string // The sentence's text.
	Start int    // Start position in the normalized text
	End   int    // End position in the normalized text
}

// Review is a raw review cell. Valid is false when the cell was missing.
type Review struct {
	Text  string
	Valid bool
}

// Text wraps s as a present review.
func Text(s string) Review {
	return Review{Text: s, Valid: true}
}

// Missing is the review value of an empty or NA cell.
var Missing = Review{}

// PartOfSpeech is the coarse word class that selects a lemmatization rule.
type PartOfSpeech int

const (
	Other PartOfSpeech = iota // Adjectives, adverbs and everything else
	Noun
	Verb
)

func (p PartOfSpeech) String() string {
	switch p {
	case Noun:
		return "noun"
	case Verb:
		return "verb"
	default:
		return "other"
	}
}

// CoarseTag maps a Penn Treebank tag onto a PartOfSpeech: NN* is a noun, VB*
// is a verb, and anything else falls back to Other.
func CoarseTag(tag string) PartOfSpeech {
	switch {
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	default:
		return Other
	}
}

// Label is the three-way sentiment class of a review.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// Labels lists every label in the order reports group them.
var Labels = []Label{Negative, Neutral, Positive}

// LabelFor classifies a polarity. Only an exact zero is Neutral.
func LabelFor(polarity float64) Label {
	switch {
	case polarity > 0:
		return Positive
	case polarity < 0:
		return Negative
	default:
		return Neutral
	}
}

// SentimentResult is the label and polarity computed for one cleaned text.
type SentimentResult struct {
	Label    Label
	Polarity float64 // -1.0 (negative) to 1.0 (positive)
}

func newSentimentResult(polarity float64) SentimentResult {
	polarity = clamp(polarity)
	return SentimentResult{Label: LabelFor(polarity), Polarity: polarity}
}
