package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/textproc"
)

// currencyPattern matches a currency symbol immediately followed by digits
var currencyPattern = regexp.MustCompile(`[$£€][0-9]+`)

// Analysis is the result of text risk scoring
type Analysis struct {
	Score   float64
	Reasons []string
}

// Analyzer scores message text using keyword density and stylistic
// heuristics. Keyword matching runs over preprocessed tokens; punctuation,
// casing, currency and phrase checks run over the raw string, which
// preprocessing would destroy.
type Analyzer struct {
	scores       config.TextPatternScores
	preprocessor *textproc.Preprocessor

	// stem -> configured keyword, so reasons report the word as configured
	keywordStems map[string]string

	urgency *ahocorasick.Matcher
	links   *ahocorasick.Matcher
}

// NewAnalyzer creates a text risk analyzer. The configured keyword list is
// stemmed once here so it matches the preprocessor's token output.
func NewAnalyzer(cfg config.TextConfig, preprocessor *textproc.Preprocessor) *Analyzer {
	keywordStems := make(map[string]string, len(cfg.Keywords))
	for _, keyword := range cfg.Keywords {
		for _, stem := range preprocessor.Preprocess(keyword) {
			if _, exists := keywordStems[stem]; !exists {
				keywordStems[stem] = strings.ToLower(keyword)
			}
		}
	}

	return &Analyzer{
		scores:       cfg.Scores,
		preprocessor: preprocessor,
		keywordStems: keywordStems,
		urgency:      ahocorasick.NewStringMatcher(lowered(cfg.UrgencyPhrases)),
		links:        ahocorasick.NewStringMatcher(lowered(cfg.LinkIndicators)),
	}
}

// Analyze scores raw message text. Absent input scores zero.
func (a *Analyzer) Analyze(raw string) Analysis {
	if raw == "" {
		return Analysis{}
	}

	var score float64
	var reasons []string

	tokens := a.preprocessor.Preprocess(raw)
	if matched, ratio := a.matchKeywords(tokens); len(matched) > 0 {
		score += ratio * a.scores.KeywordDensity
		reasons = append(reasons, fmt.Sprintf("[TEXT] Spam keywords detected: %s", strings.Join(matched, ", ")))
	}

	if strings.Contains(raw, "!") {
		score += a.scores.Exclamation
		reasons = append(reasons, "[STYLE] Multiple exclamation marks")
	}

	if capsRatio(raw) > a.scores.CapsMinRatio {
		score += a.scores.Caps
		reasons = append(reasons, "[STYLE] Excessive capitalization")
	}

	if currencyPattern.MatchString(raw) {
		score += a.scores.Currency
		reasons = append(reasons, "[TEXT] Contains monetary amounts")
	}

	loweredRaw := []byte(strings.ToLower(raw))
	if len(a.urgency.Match(loweredRaw)) > 0 {
		score += a.scores.Urgency
		reasons = append(reasons, "[TEXT] Urgency indicators")
	}

	if len(a.links.Match(loweredRaw)) > 0 {
		score += a.scores.Link
		reasons = append(reasons, "[TEXT] Contains URLs or link references")
	}

	if score > 1 {
		score = 1
	}

	return Analysis{Score: score, Reasons: reasons}
}

// matchKeywords returns the distinct matched keywords (for the reason
// string) and the matched/total token ratio. An empty token list yields a
// zero ratio, never a division error.
func (a *Analyzer) matchKeywords(tokens []string) ([]string, float64) {
	if len(tokens) == 0 {
		return nil, 0
	}

	var matched []string
	seen := make(map[string]struct{})
	hits := 0

	for _, token := range tokens {
		keyword, ok := a.keywordStems[token]
		if !ok {
			continue
		}
		hits++
		if _, dup := seen[keyword]; !dup {
			seen[keyword] = struct{}{}
			matched = append(matched, keyword)
		}
	}

	return matched, float64(hits) / float64(len(tokens))
}

// capsRatio returns the uppercase share among alphabetic characters
func capsRatio(text string) float64 {
	var upper, alpha int
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
			alpha++
		case r >= 'a' && r <= 'z':
			alpha++
		}
	}

	if alpha == 0 {
		return 0
	}
	return float64(upper) / float64(alpha)
}

func lowered(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}
