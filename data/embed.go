// Package data embeds the English resources used by the review normalizer and
// sentiment scorer: the stopword list, the pretrained tagger, the lemma index,
// and the sentiment lexicon.
//
// AveragedPerceptron/ is the part-of-speech model distributed with
// github.com/jdkato/prose v2.0.0 (see AveragedPerceptron/LICENSE). The lemma
// files are generated by cmd/lemmagen.
package data

import "embed"

// FS holds every resource file; sentiprose.ModelFromFS reads them by name.
//
//go:embed *.txt *.tsv AveragedPerceptron/*.gob
var FS embed.FS
