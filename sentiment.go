package sentiprose

import (
	"strings"
)

// A Scorer computes the sentiment of a cleaned review.
type Scorer interface {
	Score(text string) SentimentResult
}

// SentimentConfig configures the lexicon scorer.
type SentimentConfig struct {
	NegationWindow int     // Words to check for negation
	NegationFactor float64 // Multiplier applied to a negated word
	ModifierWindow int     // Words to check for intensifiers/diminishers
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		NegationWindow: 3,
		NegationFactor: -0.5,
		ModifierWindow: 1,
	}
}

// LexiconScorer averages the polarity of the lexicon words in a text, after
// adjusting each for a preceding modifier or negation.
type LexiconScorer struct {
	lexicon *SentimentLexicon
	config  SentimentConfig
}

// NewLexiconScorer creates a scorer over the model's sentiment lexicon.
func NewLexiconScorer(model *Model, config SentimentConfig) *LexiconScorer {
	return &LexiconScorer{lexicon: model.lexicon, config: config}
}

// Score returns the label and polarity of text. Text with no lexicon words,
// including empty text, is Neutral with polarity 0.
func (sa *LexiconScorer) Score(text string) SentimentResult {
	var words []string
	for _, field := range strings.Fields(text) {
		if word := stripPunctuation(field); word != "" {
			words = append(words, strings.ToLower(word))
		}
	}

	sum, n := 0.0, 0
	for i, word := range words {
		if !sa.lexicon.HasWord(word) {
			continue
		}
		polarity := sa.applyModifiers(sa.lexicon.GetSentiment(word), words, i)
		if sa.checkNegation(words, i) {
			polarity *= sa.config.NegationFactor
		}
		sum += polarity
		n++
	}
	if n == 0 {
		return newSentimentResult(0)
	}

	return newSentimentResult(sum / float64(n))
}

// checkNegation detects negation in context
func (sa *LexiconScorer) checkNegation(words []string, position int) bool {
	start := max(0, position-sa.config.NegationWindow)

	for i := position - 1; i >= start; i-- {
		if isClauseBoundary(words[i]) {
			return false
		}
		if sa.lexicon.IsNegation(words[i]) {
			return true
		}
	}
	return false
}

// applyModifiers adjusts sentiment based on intensifiers/diminishers
func (sa *LexiconScorer) applyModifiers(baseSentiment float64, words []string, position int) float64 {
	if position == 0 || baseSentiment == 0 {
		return baseSentiment
	}

	start := max(0, position-sa.config.ModifierWindow)
	for i := position - 1; i >= start; i-- {
		if modifier := sa.lexicon.GetModifierStrength(words[i]); modifier != 0 {
			return baseSentiment * (1 + modifier)
		}
	}

	return baseSentiment
}

func isClauseBoundary(word string) bool {
	switch word {
	case "but", "however", "although", "though", "yet":
		return true
	}
	return false
}
