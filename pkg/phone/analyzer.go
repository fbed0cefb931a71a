package phone

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/smsguard/spam-detector/pkg/config"
)

// Analysis is the result of phone risk scoring
type Analysis struct {
	Score   float64
	Reasons []string
}

// detector is a single risk heuristic over a normalized number. It returns
// its score contribution and reason when it triggers.
type detector func(number string) (float64, string, bool)

// Analyzer scores normalized phone numbers using blacklist membership,
// historical spam ratio and structural heuristics. The blacklist check
// short-circuits everything else; the remaining detectors run in order and
// contribute additively.
type Analyzer struct {
	profiles  *ProfileStore
	detectors []detector
}

// NewAnalyzer creates a phone risk analyzer bound to a profile store
func NewAnalyzer(cfg config.PhoneConfig, features config.FeatureToggles, profiles *ProfileStore) *Analyzer {
	areaCodes := make(map[string]struct{}, len(cfg.SpamAreaCodes))
	for _, code := range cfg.SpamAreaCodes {
		areaCodes[code] = struct{}{}
	}

	a := &Analyzer{profiles: profiles}

	scores := cfg.Scores
	a.detectors = []detector{
		a.historyDetector(scores.HistoryMinRatio, scores.HistoryMultiplier),
		areaCodeDetector(areaCodes, scores.AreaCode),
		repeatedDigitsDetector(scores.Repeated),
		sequentialDigitsDetector(scores.Sequential),
		shortCodeDetector(scores.ShortCode),
		premiumPrefixDetector(cfg.PremiumPrefixes, scores.Premium),
	}

	if features.PhoneValidity {
		a.detectors = append(a.detectors, validityDetector(scores.Invalid))
	}

	return a
}

// Analyze normalizes and scores a phone number. Absent input scores zero.
func (a *Analyzer) Analyze(raw string) Analysis {
	if raw == "" {
		return Analysis{}
	}

	number := Normalize(raw)
	if number == "" {
		return Analysis{}
	}

	// Blacklist membership overrides every other signal
	if a.profiles.IsBlacklisted(number) {
		return Analysis{
			Score:   1,
			Reasons: []string{"[PHONE] Number is blacklisted"},
		}
	}

	var score float64
	var reasons []string

	for _, detect := range a.detectors {
		if weight, reason, hit := detect(number); hit {
			score += weight
			reasons = append(reasons, reason)
		}
	}

	if score > 1 {
		score = 1
	}

	return Analysis{Score: score, Reasons: reasons}
}

// historyDetector triggers when the number's historical spam ratio exceeds
// minRatio, contributing ratio*multiplier
func (a *Analyzer) historyDetector(minRatio, multiplier float64) detector {
	return func(number string) (float64, string, bool) {
		profile := a.profiles.Lookup(number)
		if profile == nil {
			return 0, "", false
		}

		ratio := profile.SpamRatio()
		if ratio <= minRatio {
			return 0, "", false
		}

		reason := fmt.Sprintf("[PHONE] High spam history (%.1f%% spam rate)", ratio*100)
		return ratio * multiplier, reason, true
	}
}

func areaCodeDetector(areaCodes map[string]struct{}, weight float64) detector {
	return func(number string) (float64, string, bool) {
		digits := stripPrefix(number)
		if len(digits) < 3 {
			return 0, "", false
		}
		if _, spammy := areaCodes[digits[:3]]; !spammy {
			return 0, "", false
		}
		return weight, "[PHONE] Known spam area code", true
	}
}

// repeatedDigitsDetector triggers on three or more identical consecutive digits
func repeatedDigitsDetector(weight float64) detector {
	return func(number string) (float64, string, bool) {
		run := 1
		for i := 1; i < len(number); i++ {
			if number[i] == number[i-1] && number[i] >= '0' && number[i] <= '9' {
				run++
				if run >= 3 {
					return weight, "[PHONE] Suspicious repeated digits", true
				}
			} else {
				run = 1
			}
		}
		return 0, "", false
	}
}

// sequentialDigitsDetector triggers on any ascending or descending run of
// four consecutive sequential digits, e.g. "1234" or "4321"
func sequentialDigitsDetector(weight float64) detector {
	return func(number string) (float64, string, bool) {
		ascending, descending := 1, 1
		for i := 1; i < len(number); i++ {
			prev, cur := number[i-1], number[i]
			if prev < '0' || prev > '9' || cur < '0' || cur > '9' {
				ascending, descending = 1, 1
				continue
			}

			if cur == prev+1 {
				ascending++
			} else {
				ascending = 1
			}
			if cur == prev-1 {
				descending++
			} else {
				descending = 1
			}

			if ascending >= 4 || descending >= 4 {
				return weight, "[PHONE] Sequential number pattern", true
			}
		}
		return 0, "", false
	}
}

// shortCodeDetector triggers on bare numeric strings of 4-6 digits
func shortCodeDetector(weight float64) detector {
	return func(number string) (float64, string, bool) {
		if len(number) < 4 || len(number) > 6 {
			return 0, "", false
		}
		for i := 0; i < len(number); i++ {
			if number[i] < '0' || number[i] > '9' {
				return 0, "", false
			}
		}
		return weight, "[PHONE] Short code format", true
	}
}

func premiumPrefixDetector(prefixes []string, weight float64) detector {
	return func(number string) (float64, string, bool) {
		digits := stripPrefix(number)
		for _, prefix := range prefixes {
			if len(digits) >= len(prefix) && digits[:len(prefix)] == prefix {
				return weight, "[PHONE] Premium or scam prefix", true
			}
		}
		return 0, "", false
	}
}

// validityDetector penalizes numbers that fail libphonenumber validation.
// Only wired in when the phone_validity feature toggle is on.
func validityDetector(weight float64) detector {
	return func(number string) (float64, string, bool) {
		parsed, err := phonenumbers.Parse(number, "US")
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			return weight, "[PHONE] Not a valid subscriber number", true
		}
		return 0, "", false
	}
}
