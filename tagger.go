package sentiprose

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var numeric = regexp.MustCompile(`^[+-]?(?:\d+[.,:/]?)*\d+(?:st|nd|rd|th|s|%)?$`)

// averagedPerceptron is a multi-class perceptron whose weights are averaged
// over every training update.
type averagedPerceptron struct {
	classes   []string
	instances float64
	stamps    map[string]float64
	totals    map[string]float64
	weights   map[string]map[string]float64
}

func newAveragedPerceptron() *averagedPerceptron {
	return &averagedPerceptron{
		stamps:  make(map[string]float64),
		totals:  make(map[string]float64),
		weights: make(map[string]map[string]float64),
	}
}

// predict scores every class against the active features. Ties go to the
// lexically greatest class so the result never depends on map order.
func (m *averagedPerceptron) predict(features []string) string {
	scores := make(map[string]float64, len(m.classes))
	for _, feat := range features {
		weights, found := m.weights[feat]
		if !found {
			continue
		}
		for class, weight := range weights {
			scores[class] += weight
		}
	}

	best, bestScore := "", 0.0
	for i, class := range m.classes {
		score := scores[class]
		if i == 0 || score > bestScore || (score == bestScore && class > best) {
			best, bestScore = class, score
		}
	}
	return best
}

// perceptronTagger is a port of Textblob's "fast and accurate" POS tagger.
// See https://github.com/sloria/textblob-aptagger for details.
type perceptronTagger struct {
	model  *averagedPerceptron
	tagMap map[string]string
}

func newPerceptronTagger() *perceptronTagger {
	return &perceptronTagger{
		model:  newAveragedPerceptron(),
		tagMap: make(map[string]string),
	}
}

// newPretrainedTagger wraps a model trained elsewhere. tags is the
// dictionary of words whose tag never depends on context.
func newPretrainedTagger(weights map[string]map[string]float64, tags map[string]string, classes []string) *perceptronTagger {
	if tags == nil {
		tags = make(map[string]string)
	}
	model := newAveragedPerceptron()
	model.weights = weights
	model.classes = append([]string(nil), classes...)
	sort.Strings(model.classes)
	return &perceptronTagger{model: model, tagMap: tags}
}

// lookup returns the fixed tag of a word, if it has one.
func (pt *perceptronTagger) lookup(word string) (string, bool) {
	if tag, found := pt.tagMap[word]; found {
		return tag, true
	}
	if tag, found := pt.tagMap[strings.ToLower(word)]; found {
		return tag, true
	}
	if numeric.MatchString(word) {
		return "CD", true
	}
	return "", false
}

// tag assigns a Penn Treebank tag to every token in place.
func (pt *perceptronTagger) tag(tokens []*Token) []*Token {
	context := make([]string, 0, len(tokens)+4)
	context = append(context, "-START-", "-START2-")
	for _, tok := range tokens {
		context = append(context, normalizeWord(tok.Text))
	}
	context = append(context, "-END-", "-END2-")

	p1, p2 := "-START-", "-START2-"
	for i, tok := range tokens {
		tag, found := pt.lookup(tok.Text)
		if !found {
			tag = pt.model.predict(featurize(i, context, tok.Text, p1, p2))
		}
		tok.Tag = tag
		p2 = p1
		p1 = tag
	}

	return tokens
}

// featurize returns the active features of the word at position i. The
// context slice carries two padding entries on each side.
func featurize(i int, ctx []string, w, p1, p2 string) []string {
	i += 2
	pref1 := ""
	if r, size := utf8.DecodeRuneInString(w); size > 0 {
		pref1 = string(r)
	}
	return []string{
		"bias",
		"i suffix " + suffix(w),
		"i pref1 " + pref1,
		"i-1 tag " + p1,
		"i-2 tag " + p2,
		"i tag+i-2 tag " + p1 + " " + p2,
		"i word " + ctx[i],
		"i-1 tag+i word " + p1 + " " + ctx[i],
		"i-1 word " + ctx[i-1],
		"i-1 suffix " + suffix(ctx[i-1]),
		"i-2 word " + ctx[i-2],
		"i+1 word " + ctx[i+1],
		"i+1 suffix " + suffix(ctx[i+1]),
		"i+2 word " + ctx[i+2],
	}
}

func suffix(w string) string {
	n := utf8.RuneCountInString(w)
	if n <= 3 {
		return w
	}
	r := []rune(w)
	return string(r[n-3:])
}

func normalizeWord(word string) string {
	switch {
	case word == "":
		return word
	case strings.Contains(word, "-") && word[0] != '-':
		return "!HYPHEN"
	case len(word) == 4 && isDigits(word):
		return "!YEAR"
	case word[0] >= '0' && word[0] <= '9':
		return "!DIGITS"
	default:
		return strings.ToLower(word)
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sortedClasses returns the classes seen in training in a stable order.
func sortedClasses(seen map[string]bool) []string {
	classes := make([]string, 0, len(seen))
	for class := range seen {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}
