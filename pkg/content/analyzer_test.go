package content

import (
	"strings"
	"testing"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/textproc"
)

func newTestAnalyzer() *Analyzer {
	cfg := config.DefaultConfig().Detection.Text
	return NewAnalyzer(cfg, textproc.NewPreprocessor(cfg.ExtraStopwords))
}

func TestAnalyzeAbsentInput(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze("")
	if result.Score != 0 || len(result.Reasons) != 0 {
		t.Errorf("expected zero analysis for absent input, got %+v", result)
	}
}

func TestAnalyzeCleanText(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze("Meeting moved to 3pm")
	if result.Score != 0 {
		t.Errorf("expected zero score for clean text, got %.3f (%v)", result.Score, result.Reasons)
	}
}

func TestAnalyzeKeywordDensity(t *testing.T) {
	a := newTestAnalyzer()

	// 3 of 4 surviving tokens are spam keywords
	result := a.Analyze("win a free prize today")

	if result.Score != 0.75 {
		t.Errorf("expected keyword density score 0.75, got %.3f (%v)", result.Score, result.Reasons)
	}
	if len(result.Reasons) != 1 || !strings.Contains(result.Reasons[0], "Spam keywords detected") {
		t.Errorf("expected a keyword reason, got %v", result.Reasons)
	}
}

func TestAnalyzeKeywordsMatchInflectedForms(t *testing.T) {
	a := newTestAnalyzer()

	// "prizes" and "winning" stem to the configured keywords
	result := a.Analyze("winning prizes daily")
	if result.Score == 0 {
		t.Error("expected inflected keyword forms to match")
	}
}

func TestAnalyzeStyleHeuristics(t *testing.T) {
	a := newTestAnalyzer()

	testCases := []struct {
		name     string
		text     string
		score    float64
		contains string
	}{
		{"exclamation", "stop!!!", 0.4, "exclamation"},
		{"capitalization", "HELLO THERE FRIEND", 0.5, "capitalization"},
		{"currency", "please send $500 by friday", 0.6, "monetary"},
		{"urgency", "please reply right away, hurry", 0.7, "Urgency"},
		{"links", "see www.example.com for details", 0.6, "URLs"},
	}

	for _, tc := range testCases {
		result := a.Analyze(tc.text)
		if result.Score != tc.score {
			t.Errorf("%s: Analyze(%q).Score = %.3f, expected %.3f (%v)",
				tc.name, tc.text, result.Score, tc.score, result.Reasons)
		}
		if len(result.Reasons) != 1 || !strings.Contains(result.Reasons[0], tc.contains) {
			t.Errorf("%s: expected one reason containing %q, got %v", tc.name, tc.contains, result.Reasons)
		}
	}
}

func TestAnalyzeKeywordMonotonicity(t *testing.T) {
	a := newTestAnalyzer()

	base := a.Analyze("please call me back later")
	spammier := a.Analyze("please call me back later free prize")

	if spammier.Score < base.Score {
		t.Errorf("adding spam keywords decreased the score: %.3f -> %.3f", base.Score, spammier.Score)
	}
}

func TestAnalyzeAllStopwordText(t *testing.T) {
	a := newTestAnalyzer()

	// Every token is filtered out; the exclamation check still fires and
	// the empty token list must not divide by zero
	result := a.Analyze("!!!")
	if result.Score != 0.4 {
		t.Errorf("expected 0.4 for punctuation-only text, got %.3f (%v)", result.Score, result.Reasons)
	}
}

func TestAnalyzeScoreCapped(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze("FREE prize!!! Win $1000 now at www.spam.com")

	if result.Score != 1 {
		t.Errorf("expected capped score 1, got %.3f", result.Score)
	}
	if len(result.Reasons) < 4 {
		t.Errorf("expected several triggered heuristics, got %v", result.Reasons)
	}
}

func TestAnalyzeScoreRange(t *testing.T) {
	a := newTestAnalyzer()

	inputs := []string{
		"",
		"hello",
		"URGENT!!! You WON $5000, claim your FREE prize now at www.scam.com!!!",
		"see you at the meeting",
	}

	for _, input := range inputs {
		result := a.Analyze(input)
		if result.Score < 0 || result.Score > 1 {
			t.Errorf("Analyze(%q).Score = %.3f out of [0,1]", input, result.Score)
		}
	}
}
