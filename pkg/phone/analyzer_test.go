package phone

import (
	"strings"
	"testing"

	"github.com/smsguard/spam-detector/pkg/config"
)

func newTestAnalyzer(profiles *ProfileStore) *Analyzer {
	cfg := config.DefaultConfig()
	return NewAnalyzer(cfg.Detection.Phone, cfg.Detection.Features, profiles)
}

func TestAnalyzeAbsentInput(t *testing.T) {
	a := newTestAnalyzer(NewProfileStore())

	result := a.Analyze("")
	if result.Score != 0 || len(result.Reasons) != 0 {
		t.Errorf("expected zero analysis for absent input, got %+v", result)
	}
}

func TestAnalyzeBlacklistShortCircuit(t *testing.T) {
	profiles := NewProfileStore()
	profiles.Record("4165551234", true)
	a := newTestAnalyzer(profiles)

	// Formatting differences must not defeat the blacklist lookup. The
	// number also has repeated digits, but the blacklist overrides them.
	result := a.Analyze("(416) 555-1234")

	if result.Score != 1 {
		t.Errorf("expected score 1 for blacklisted number, got %.3f", result.Score)
	}
	if len(result.Reasons) != 1 {
		t.Fatalf("expected a single blacklist reason, got %v", result.Reasons)
	}
	if !strings.Contains(strings.ToLower(result.Reasons[0]), "blacklisted") {
		t.Errorf("reason %q does not mention the blacklist", result.Reasons[0])
	}
}

func TestAnalyzeDetectors(t *testing.T) {
	a := newTestAnalyzer(NewProfileStore())

	testCases := []struct {
		name     string
		number   string
		score    float64
		contains string
	}{
		{"spam area code", "4195267831", 0.9, "spam area code"},
		{"repeated digits", "2125557861", 0.7, "repeated digits"},
		{"ascending sequence", "2123456871", 0.7, "Sequential"},
		{"descending sequence", "2165432871", 0.7, "Sequential"},
		{"short code", "12932", 0.8, "Short code"},
		{"premium prefix", "9765267831", 0.9, "Premium"},
		{"clean number", "2125267831", 0, ""},
	}

	for _, tc := range testCases {
		result := a.Analyze(tc.number)
		if result.Score != tc.score {
			t.Errorf("%s: Analyze(%q).Score = %.3f, expected %.3f", tc.name, tc.number, result.Score, tc.score)
		}
		if tc.contains == "" {
			if len(result.Reasons) != 0 {
				t.Errorf("%s: expected no reasons, got %v", tc.name, result.Reasons)
			}
			continue
		}
		if len(result.Reasons) != 1 || !strings.Contains(result.Reasons[0], tc.contains) {
			t.Errorf("%s: expected one reason containing %q, got %v", tc.name, tc.contains, result.Reasons)
		}
	}
}

func TestAnalyzeSequentialNeedsRunOfFour(t *testing.T) {
	a := newTestAnalyzer(NewProfileStore())

	// "7890" wraps around; a run of three does not count either. The number
	// is 4 digits so only the short-code detector should fire.
	result := a.Analyze("7890")
	if result.Score != 0.8 {
		t.Errorf("expected only the short-code score, got %.3f (%v)", result.Score, result.Reasons)
	}
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "Sequential") {
			t.Errorf("wrap-around digits flagged as sequential: %v", result.Reasons)
		}
	}
}

func TestAnalyzeScoreCapped(t *testing.T) {
	a := newTestAnalyzer(NewProfileStore())

	// Spam area code + premium prefix + repeated + sequential digits
	result := a.Analyze("9005551234")

	if result.Score != 1 {
		t.Errorf("expected capped score 1, got %.3f", result.Score)
	}
	if len(result.Reasons) != 4 {
		t.Errorf("expected 4 triggered detectors, got %v", result.Reasons)
	}
}

func TestAnalyzeHamHistoryIsClean(t *testing.T) {
	profiles := NewProfileStore()
	for i := 0; i < 3; i++ {
		profiles.Record("2125267831", false)
	}
	a := newTestAnalyzer(profiles)

	if profiles.IsBlacklisted("2125267831") {
		t.Fatal("ham-only number must not be blacklisted")
	}

	result := a.Analyze("2125267831")
	if result.Score != 0 {
		t.Errorf("expected zero score for ham-only history, got %.3f (%v)", result.Score, result.Reasons)
	}
}

func TestAnalyzeNormalizesBeforeMatching(t *testing.T) {
	a := newTestAnalyzer(NewProfileStore())

	bare := a.Analyze("4195267831")
	formatted := a.Analyze("(419) 526-7831")

	if bare.Score != formatted.Score {
		t.Errorf("formatting changed the score: %.3f vs %.3f", bare.Score, formatted.Score)
	}
}
