package sentiprose

import (
	"strings"

	"github.com/jonreiter/govader"
)

// VaderScorer uses the VADER compound score as the polarity.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer builds a scorer around govader's bundled lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) SentimentResult {
	if strings.TrimSpace(text) == "" {
		return newSentimentResult(0)
	}
	return newSentimentResult(v.analyzer.PolarityScores(text).Compound)
}
