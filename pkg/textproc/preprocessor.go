package textproc

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Preprocessor normalizes raw text into a canonical token sequence:
// lowercase, letters only, whitespace tokenized, stopwords removed,
// tokens reduced to their Snowball English stem.
type Preprocessor struct {
	stopwords map[string]struct{}
}

// NewPreprocessor creates a preprocessor with the built-in English stopword
// set plus any extra stopwords from configuration.
func NewPreprocessor(extraStopwords []string) *Preprocessor {
	stops := make(map[string]struct{}, len(defaultStopwords)+len(extraStopwords))
	for _, w := range defaultStopwords {
		stops[w] = struct{}{}
	}
	for _, w := range extraStopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}

	return &Preprocessor{stopwords: stops}
}

// Preprocess converts text into an ordered sequence of stemmed tokens.
// Empty input yields an empty sequence.
func (p *Preprocessor) Preprocess(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)

	// Replace everything that is not a letter with whitespace
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, token := range strings.Fields(b.String()) {
		if _, stop := p.stopwords[token]; stop {
			continue
		}
		tokens = append(tokens, p.stem(token))
	}

	return tokens
}

// stem reduces a token to its Snowball stem. Tokens the stemmer rejects
// (too short, non-English runes) pass through unchanged.
func (p *Preprocessor) stem(token string) string {
	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}
