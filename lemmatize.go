package sentiprose

import (
	"strings"
)

// A suffixRule replaces a word ending with another.
type suffixRule struct {
	old, new string
}

// Detachment rules per word class, tried in order.
var detachmentRules = map[PartOfSpeech][]suffixRule{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Other: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
}

// lemmatizer reduces a word to its dictionary base form using an exception
// table, suffix detachment rules, and an index of known base forms.
type lemmatizer struct {
	index      map[PartOfSpeech]map[string]bool
	exceptions map[PartOfSpeech]map[string][]string
}

func newLemmatizer() *lemmatizer {
	l := &lemmatizer{
		index:      make(map[PartOfSpeech]map[string]bool),
		exceptions: make(map[PartOfSpeech]map[string][]string),
	}
	for _, pos := range []PartOfSpeech{Noun, Verb, Other} {
		l.index[pos] = make(map[string]bool)
		l.exceptions[pos] = make(map[string][]string)
	}
	return l
}

// lemmatize returns the shortest known base form of word for pos, or word
// itself when no candidate is known.
func (l *lemmatizer) lemmatize(word string, pos PartOfSpeech) string {
	// Lookups are case-insensitive, so capitalized words such as "Worst" are
	// reduced too.
	lemmas := l.morphy(strings.ToLower(word), pos)
	if len(lemmas) == 0 {
		return word
	}
	best := lemmas[0]
	for _, lemma := range lemmas[1:] {
		if len(lemma) < len(best) {
			best = lemma
		}
	}
	return best
}

func (l *lemmatizer) morphy(form string, pos PartOfSpeech) []string {
	if form == "" {
		return nil
	}
	if exc, found := l.exceptions[pos][form]; found {
		return l.filter(append([]string{form}, exc...), pos)
	}

	forms := applyRules([]string{form}, detachmentRules[pos])
	if results := l.filter(append([]string{form}, forms...), pos); len(results) > 0 {
		return results
	}
	for len(forms) > 0 {
		forms = applyRules(forms, detachmentRules[pos])
		if results := l.filter(forms, pos); len(results) > 0 {
			return results
		}
	}
	return nil
}

func applyRules(forms []string, rules []suffixRule) []string {
	var out []string
	for _, form := range forms {
		for _, rule := range rules {
			if strings.HasSuffix(form, rule.old) {
				out = append(out, form[:len(form)-len(rule.old)]+rule.new)
			}
		}
	}
	return out
}

// filter keeps the known base forms, without duplicates, in order.
func (l *lemmatizer) filter(forms []string, pos PartOfSpeech) []string {
	var result []string
	seen := make(map[string]bool)
	for _, form := range forms {
		if l.index[pos][form] && !seen[form] {
			result = append(result, form)
			seen[form] = true
		}
	}
	return result
}
