package sentiprose

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// verifyResult checks the range and label invariants of a sentiment result.
func verifyResult(t *testing.T, text string, r SentimentResult) {
	t.Helper()
	if math.IsNaN(r.Polarity) || r.Polarity < -1 || r.Polarity > 1 {
		t.Fatalf("Score(%q): polarity %v outside [-1, 1]", text, r.Polarity)
	}
	if r.Label != LabelFor(r.Polarity) {
		t.Fatalf("Score(%q): label %s does not match polarity %v", text, r.Label, r.Polarity)
	}
}

func FuzzNormalizeAndScore(f *testing.F) {
	f.Add("The shoes were absolutely amazing and I loved them")
	f.Add("")
	f.Add("!!! ... ,,,")
	f.Add("Not bad, but not great either :)")
	f.Add("It’s “okay”… 3/5 stars")
	f.Add("NEVER AGAIN!!! worst purchase ever")
	f.Add("ȺȺȺȺ'd")
	f.Add("İİ's good")

	model := testModel(f)
	n := NewNormalizer(model)
	lexicon := NewLexiconScorer(model, DefaultSentimentConfig())
	vader := NewVaderScorer()

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}
		cleaned := n.Normalize(s)
		if !utf8.ValidString(cleaned) {
			t.Fatalf("Normalize(%q) = %q is not valid UTF-8", s, cleaned)
		}
		if strings.Contains(cleaned, "  ") || strings.TrimSpace(cleaned) != cleaned {
			t.Fatalf("Normalize(%q) = %q has stray spaces", s, cleaned)
		}
		if again := n.Normalize(s); again != cleaned {
			t.Fatalf("Normalize(%q) not deterministic: %q then %q", s, cleaned, again)
		}

		verifyResult(t, cleaned, lexicon.Score(cleaned))
		verifyResult(t, cleaned, vader.Score(cleaned))
	})
}
