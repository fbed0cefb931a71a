package phone

import "testing"

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"4195551234", "4195551234"},
		{"(419) 555-1234", "4195551234"},
		{"419.555.1234", "4195551234"},
		{"+1 419 555 1234", "+14195551234"},
		{"+44 20 7946 0958", "+442079460958"},
		{"letters only", ""},
		{"419+555", "419555"}, // interior "+" dropped
	}

	for _, tc := range testCases {
		result := Normalize(tc.input)
		if result != tc.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", tc.input, result, tc.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "(419) 555-1234", "+1 419-555-1234", "900 1234", "abc"}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestStripPrefix(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"+4195551234", "4195551234"},
		{"004195551234", "4195551234"},
		{"4195551234", "4195551234"},
	}

	for _, tc := range testCases {
		result := stripPrefix(tc.input)
		if result != tc.expected {
			t.Errorf("stripPrefix(%q) = %q, expected %q", tc.input, result, tc.expected)
		}
	}
}
