package sentiprose

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
)

// TrainingConfig contains configuration for tagger training.
type TrainingConfig struct {
	Iterations         int     // Passes over the corpus
	Seed               int64   // Seed of the between-pass shuffle
	FreqThreshold      int     // Minimum count before a word joins the tag map
	AmbiguityThreshold float64 // Minimum share of the word's most frequent tag
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:         5,
		Seed:               42,
		FreqThreshold:      20,
		AmbiguityThreshold: 0.97,
	}
}

// taggedSentence is a sentence of words with their gold tags.
type taggedSentence struct {
	words []string
	tags  []string
}

// readTaggedCorpus parses one sentence per line in word/TAG form. The tag is
// taken after the last slash so words like "and/or" survive.
func readTaggedCorpus(r io.Reader) ([]taggedSentence, error) {
	var corpus []taggedSentence

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "# ") {
			continue
		}
		var sent taggedSentence
		for _, field := range strings.Fields(text) {
			idx := strings.LastIndex(field, "/")
			if idx <= 0 || idx == len(field)-1 {
				return nil, fmt.Errorf("line %d: malformed token %q", line, field)
			}
			sent.words = append(sent.words, field[:idx])
			sent.tags = append(sent.tags, field[idx+1:])
		}
		corpus = append(corpus, sent)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return corpus, nil
}

// train fits the perceptron on corpus. Words already in the tag map are not
// used as training instances.
func (pt *perceptronTagger) train(corpus []taggedSentence, cfg TrainingConfig) error {
	pt.makeTagMap(corpus, cfg)
	if len(pt.model.classes) == 0 {
		return fmt.Errorf("%w: tagger corpus has no tags", ErrResourceLoad)
	}

	sentences := make([]taggedSentence, len(corpus))
	copy(sentences, corpus)
	rng := rand.New(rand.NewSource(cfg.Seed))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for _, sent := range sentences {
			context := make([]string, 0, len(sent.words)+4)
			context = append(context, "-START-", "-START2-")
			for _, w := range sent.words {
				context = append(context, normalizeWord(w))
			}
			context = append(context, "-END-", "-END2-")

			p1, p2 := "-START-", "-START2-"
			for i, word := range sent.words {
				guess, found := pt.lookup(word)
				if !found {
					feats := featurize(i, context, word, p1, p2)
					guess = pt.model.predict(feats)
					pt.model.update(sent.tags[i], guess, feats)
				}
				p2 = p1
				p1 = guess
			}
		}
		rng.Shuffle(len(sentences), func(i, j int) {
			sentences[i], sentences[j] = sentences[j], sentences[i]
		})
	}

	pt.model.averageWeights()
	return nil
}

// averageWeights calculates averaged weights for the perceptron
func (m *averagedPerceptron) averageWeights() {
	if m.instances == 0 {
		return
	}
	for feat, weights := range m.weights {
		newWeights := make(map[string]float64)
		for class, weight := range weights {
			key := feat + "-" + class
			total := m.totals[key]
			total += (m.instances - m.stamps[key]) * weight
			averaged := math.Round(total/m.instances*1000) / 1000
			if averaged != 0 {
				newWeights[class] = averaged
			}
		}
		m.weights[feat] = newWeights
	}
}

// makeTagMap records the classes of the corpus and adds frequent,
// unambiguous words to the tag map.
func (pt *perceptronTagger) makeTagMap(sentences []taggedSentence, cfg TrainingConfig) {
	counts := make(map[string]map[string]int)
	seen := make(map[string]bool)
	for _, cls := range pt.model.classes {
		seen[cls] = true
	}
	for _, sent := range sentences {
		for i, word := range sent.words {
			tag := sent.tags[i]
			if counts[word] == nil {
				counts[word] = make(map[string]int)
			}
			counts[word][tag]++
			seen[tag] = true
		}
	}
	for _, tag := range pt.tagMap {
		seen[tag] = true
	}
	pt.model.classes = sortedClasses(seen)

	for word, tagFreqs := range counts {
		if _, fixed := pt.tagMap[word]; fixed {
			continue
		}
		tag, mode := maxValue(tagFreqs)
		n := float64(sumValues(tagFreqs))
		if n >= float64(cfg.FreqThreshold) && (float64(mode)/n) >= cfg.AmbiguityThreshold {
			pt.tagMap[word] = tag
		}
	}
}

// update updates the model weights based on prediction error
func (m *averagedPerceptron) update(truth, guess string, feats []string) {
	m.instances++
	if truth == guess {
		return
	}

	for _, f := range feats {
		weights, found := m.weights[f]
		if !found {
			weights = make(map[string]float64)
			m.weights[f] = weights
		}

		m.updateFeat(truth, f, weights[truth], 1.0)
		m.updateFeat(guess, f, weights[guess], -1.0)
	}
}

// updateFeat moves the weight of feature f for class c from w by v, first
// crediting the running total with the time w was in effect.
func (m *averagedPerceptron) updateFeat(c, f string, w, v float64) {
	key := f + "-" + c
	m.totals[key] += (m.instances - m.stamps[key]) * w
	m.stamps[key] = m.instances
	m.weights[f][c] = w + v
}

// sumValues sums all values in a map
func sumValues(m map[string]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}

// maxValue finds the key with maximum value in a map. Ties go to the
// lexically smallest key.
func maxValue(m map[string]int) (string, int) {
	maxValue := 0
	key := ""
	for k, v := range m {
		if v > maxValue || (v == maxValue && k < key) {
			maxValue = v
			key = k
		}
	}
	return key, maxValue
}
