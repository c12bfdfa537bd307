package sentiprose

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenTester func(string) bool

// A Tokenizer splits one sentence into word tokens with byte offsets relative
// to the sentence.
type Tokenizer interface {
	Tokenize(string) []*Token
}

// iterTokenizer splits a sentence into words.
type iterTokenizer struct {
	specialRE      *regexp.Regexp
	contractions   []string
	splitCases     []string
	suffixes       []string
	prefixes       []string
	emoticons      map[string]int
	isUnsplittable TokenTester
}

type TokenizerOptFunc func(*iterTokenizer)

// UsingIsUnsplittable gives a function that tests whether a token is splittable or not.
func UsingIsUnsplittable(x TokenTester) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.isUnsplittable = x
	}
}

// Use the provided special regex for unsplittable tokens.
func UsingSpecialRE(x *regexp.Regexp) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.specialRE = x
	}
}

// Use the provided map of emoticons.
func UsingEmoticons(x map[string]int) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.emoticons = x
	}
}

// Use the provided contractions.
func UsingContractions(x []string) TokenizerOptFunc {
	return func(tokenizer *iterTokenizer) {
		tokenizer.contractions = x
	}
}

// NewIterTokenizer returns the Treebank-style word splitter used by the
// normalizer.
func NewIterTokenizer(opts ...TokenizerOptFunc) *iterTokenizer {
	tok := new(iterTokenizer)

	tok.contractions = contractions
	tok.emoticons = emoticons
	tok.isUnsplittable = func(_ string) bool { return false }
	tok.prefixes = prefixes
	tok.specialRE = internalRE
	tok.suffixes = suffixes

	for _, applyOpt := range opts {
		applyOpt(tok)
	}

	tok.splitCases = append(tok.splitCases, tok.contractions...)

	return tok
}

func addToken(s string, toks []*Token) []*Token {
	if strings.TrimSpace(s) != "" {
		toks = append(toks, &Token{Text: s})
	}
	return toks
}

func (t *iterTokenizer) isSpecial(token string) bool {
	_, found := t.emoticons[token]
	return found || t.specialRE.MatchString(token) || t.isUnsplittable(token)
}

// doSplit breaks one whitespace-free span into tokens. The returned pieces
// concatenate back to the span.
func (t *iterTokenizer) doSplit(token string) []*Token {
	tokens := []*Token{}
	suffs := []*Token{}

	last := 0
	for token != "" && utf8.RuneCountInString(token) != last {
		if t.isSpecial(token) {
			// Emoticons and abbreviations are kept whole.
			tokens = addToken(token, tokens)
			break
		}
		last = utf8.RuneCountInString(token)
		lower := lowerASCII(token)
		if hasAnyPrefix(token, t.prefixes) {
			// $100 -> [$, 100].
			tokens = addToken(string(token[0]), tokens)
			token = token[1:]
		} else if idx := hasAnyIndex(lower, t.splitCases); idx > 0 {
			// they'll -> [they, 'll].
			// don't -> [do, n't].
			tokens = addToken(token[:idx], tokens)
			token = token[idx:]
		} else if strings.HasSuffix(token, "...") {
			// great... -> [great, ...].
			suffs = append([]*Token{{Text: "..."}}, suffs...)
			token = token[:len(token)-3]
		} else if hasAnySuffix(token, t.suffixes) {
			// Well) -> [Well, )].
			suffs = append([]*Token{{Text: string(token[len(token)-1])}}, suffs...)
			token = token[:len(token)-1]
		} else {
			tokens = addToken(token, tokens)
			break
		}
	}

	return append(tokens, suffs...)
}

// Tokenize splits a sentence into a slice of words with byte offsets into the
// sanitized sentence.
func (t *iterTokenizer) Tokenize(text string) []*Token {
	var tokens []*Token

	clean := sanitizer.Replace(text)
	cache := map[string][]*Token{}

	for _, span := range whitespaceSpans(clean) {
		word := clean[span[0]:span[1]]
		pieces, found := cache[word]
		if !found {
			pieces = t.doSplit(word)
			cache[word] = pieces
		}
		offset := span[0]
		for _, piece := range pieces {
			tokens = append(tokens, &Token{
				Text:  piece.Text,
				Start: offset,
				End:   offset + len(piece.Text),
			})
			offset += len(piece.Text)
		}
	}

	return tokens
}

// whitespaceSpans returns the [start, end) byte ranges of the runs of
// non-space characters in s.
func whitespaceSpans(s string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(s)})
	}
	return spans
}

// lowerASCII lowercases the ASCII letters of s and leaves every other byte
// alone, so indexes into the result are valid in s. The split cases are
// ASCII.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// hasAnyIndex returns the position of the first split case found inside s,
// or -1. A case that spans all of s does not count.
func hasAnyIndex(s string, cases []string) int {
	n := len(s)
	for _, c := range cases {
		idx := strings.Index(s, c)
		if idx >= 0 && n > len(c) {
			return idx
		}
	}
	return -1
}

var internalRE = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$|^[A-Z][a-z]{1,2}\.$`)
var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"&rsquo;", "'")
var contractions = []string{"'ll", "'s", "'re", "'m", "'ve", "'d", "n't"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'"}
var prefixes = []string{"$", "(", `"`, "["}
var emoticons = map[string]int{
	"(-8":     1,
	"(-;":     1,
	"(:":      1,
	"(=":      1,
	"-__-":    1,
	"8-)":     1,
	"8-D":     1,
	":(":      1,
	":((":     1,
	":)))":    1,
	":-)":     1,
	":-))":    1,
	":-*":     1,
	":-/":     1,
	":-(":     1,
	":-|":     1,
	":)":      1,
	":D":      1,
	":P":      1,
	":o":      1,
	":'(":     1,
	";)":      1,
	";-)":     1,
	"<3":      1,
	"=(":      1,
	"=)":      1,
	"=D":      1,
	"O_o":     1,
	"XD":      1,
	"^_^":     1,
	"o_O":     1,
	"xD":      1,
	"¯\\(ツ)/¯": 1,
}
