package sentiprose

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// SentimentLexicon manages sentiment word lists. It is read-only once built.
type SentimentLexicon struct {
	words     map[string]float64
	modifiers map[string]float64
	negations map[string]bool
}

// ExternalLexicon represents the JSON structure for external lexicon files
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a specific language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word      string  `json:"word"`
	Sentiment float64 `json:"sentiment"`
}

// ModifierEntry represents a modifier word in JSON format. Factor multiplies
// the sentiment of the following word.
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

const (
	defaultIntensifier = 0.5
	defaultDiminisher  = -0.5
)

// loadSentimentLexicon reads the word, modifier and negation tables from fsys.
func loadSentimentLexicon(fsys fs.FS) (*SentimentLexicon, error) {
	lexicon := &SentimentLexicon{
		words:     make(map[string]float64),
		modifiers: make(map[string]float64),
		negations: make(map[string]bool),
	}

	if err := readWeights(fsys, "sentiment_lexicon.tsv", lexicon.words); err != nil {
		return nil, err
	}
	if err := readWeights(fsys, "sentiment_modifiers.tsv", lexicon.modifiers); err != nil {
		return nil, err
	}
	negations, err := readWordList(fsys, "sentiment_negations.txt")
	if err != nil {
		return nil, err
	}
	for _, word := range negations {
		lexicon.negations[word] = true
	}

	return lexicon, nil
}

func readWeights(fsys fs.FS, name string, into map[string]float64) error {
	rows, err := readTable(fsys, name, 2)
	if err != nil {
		return err
	}
	for _, row := range rows {
		weight, err := strconv.ParseFloat(row.fields[1], 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, row.line, err)
		}
		if weight < -1 || weight > 1 {
			return fmt.Errorf("%s:%d: weight %v outside [-1, 1]", name, row.line, weight)
		}
		into[strings.ToLower(row.fields[0])] = weight
	}
	return nil
}

// LoadExternalLexicon loads and merges the English section of a JSON lexicon.
func (sl *SentimentLexicon) LoadExternalLexicon(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	for _, key := range []string{"english", "en"} {
		if langData, exists := external.Languages[key]; exists {
			sl.mergeLanguageData(langData)
		}
	}

	return nil
}

// mergeLanguageData merges external language data with existing lexicon
func (sl *SentimentLexicon) mergeLanguageData(data LanguageLexicon) {
	for _, group := range [][]WordEntry{data.Words, data.Positive, data.Negative} {
		for _, entry := range group {
			sl.words[strings.ToLower(entry.Word)] = clamp(entry.Sentiment)
		}
	}

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor - 1
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = defaultIntensifier
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = defaultDiminisher
	}

	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

// GetSentiment returns sentiment score for a word
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	return sl.words[strings.ToLower(word)]
}

// HasWord checks if a word exists in the lexicon
func (sl *SentimentLexicon) HasWord(word string) bool {
	_, exists := sl.words[strings.ToLower(word)]
	return exists
}

// IsNegation checks if word is a negation
func (sl *SentimentLexicon) IsNegation(word string) bool {
	return sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns modifier strength
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	return sl.modifiers[strings.ToLower(word)]
}

// GetLexiconSize returns the number of words in the lexicon
func (sl *SentimentLexicon) GetLexiconSize() int {
	return len(sl.words)
}

func clamp(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	default:
		return x
	}
}
