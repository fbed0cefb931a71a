package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the smsguard configuration
type Config struct {
	// Spam detection settings
	Detection DetectionConfig `yaml:"detection"`

	// Classifier settings
	Learning LearningConfig `yaml:"learning"`

	// Training dataset settings
	Dataset DatasetConfig `yaml:"dataset"`

	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// DetectionConfig contains spam detection parameters
type DetectionConfig struct {
	// Final verdict threshold: combined score above this value is spam
	SpamThreshold float64 `yaml:"spam_threshold"`

	// Fusion weights for the three signals
	Weights FusionWeights `yaml:"weights"`

	// Phone heuristics
	Phone PhoneConfig `yaml:"phone"`

	// Text heuristics
	Text TextConfig `yaml:"text"`

	// Enable/disable optional detectors
	Features FeatureToggles `yaml:"features"`
}

// FusionWeights defines how the three sub-scores are combined
type FusionWeights struct {
	Phone      float64 `yaml:"phone"`
	Text       float64 `yaml:"text"`
	Classifier float64 `yaml:"classifier"`
}

// PhoneConfig contains phone risk heuristic settings
type PhoneConfig struct {
	// Detector weights
	Scores PhonePatternScores `yaml:"scores"`

	// Known high-risk area/country codes (matched after stripping "+" / "00")
	SpamAreaCodes []string `yaml:"spam_area_codes"`

	// Premium-rate and scam number prefixes
	PremiumPrefixes []string `yaml:"premium_prefixes"`
}

// PhonePatternScores defines the weight each phone detector contributes
type PhonePatternScores struct {
	// Spam history ratio is multiplied by this factor when above HistoryMinRatio
	HistoryMultiplier float64 `yaml:"history_multiplier"`
	HistoryMinRatio   float64 `yaml:"history_min_ratio"`

	AreaCode   float64 `yaml:"area_code"`
	Repeated   float64 `yaml:"repeated"`
	Sequential float64 `yaml:"sequential"`
	ShortCode  float64 `yaml:"short_code"`
	Premium    float64 `yaml:"premium"`
	Invalid    float64 `yaml:"invalid"`
}

// TextConfig contains text risk heuristic settings
type TextConfig struct {
	// Spam keywords, matched against preprocessed tokens
	Keywords []string `yaml:"keywords"`

	// Urgency phrases, matched case-insensitively against the raw text
	UrgencyPhrases []string `yaml:"urgency_phrases"`

	// URL / link indicators, matched case-insensitively against the raw text
	LinkIndicators []string `yaml:"link_indicators"`

	// Extra stopwords removed during preprocessing (in addition to the built-in set)
	ExtraStopwords []string `yaml:"extra_stopwords"`

	// Detector weights
	Scores TextPatternScores `yaml:"scores"`
}

// TextPatternScores defines the weight each text detector contributes
type TextPatternScores struct {
	// Keyword density (matched/total tokens) is multiplied by this factor
	KeywordDensity float64 `yaml:"keyword_density"`

	Exclamation float64 `yaml:"exclamation"`

	// Caps score triggers when the uppercase ratio exceeds CapsMinRatio
	Caps         float64 `yaml:"caps"`
	CapsMinRatio float64 `yaml:"caps_min_ratio"`

	Currency float64 `yaml:"currency"`
	Urgency  float64 `yaml:"urgency"`
	Link     float64 `yaml:"link"`
}

// FeatureToggles enables/disables optional detectors
type FeatureToggles struct {
	// Penalize numbers that fail libphonenumber validation.
	// Off by default: it adds signal beyond the reference scoring.
	PhoneValidity bool `yaml:"phone_validity"`
}

// LearningConfig contains Bayesian classifier settings
type LearningConfig struct {
	// Backend selection: "memory" or "redis"
	Backend string `yaml:"backend"`

	// Laplace smoothing factor
	SmoothingFactor float64 `yaml:"smoothing_factor"`

	// Model snapshot path used by save/load (memory backend)
	ModelPath string `yaml:"model_path"`

	// Redis backend settings
	Redis RedisBackendConfig `yaml:"redis"`
}

// RedisBackendConfig contains Redis classifier settings
type RedisBackendConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
}

// DatasetConfig contains training dataset settings
type DatasetConfig struct {
	// CSV file with text,label,phone columns
	Path string `yaml:"path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `yaml:"address"`

	// Graceful shutdown timeout in milliseconds
	ShutdownTimeoutMs int `yaml:"shutdown_timeout_ms"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the smsguard default configuration
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			SpamThreshold: 0.3,
			Weights: FusionWeights{
				Phone:      0.5,
				Text:       0.4,
				Classifier: 0.1,
			},
			Phone: PhoneConfig{
				Scores: PhonePatternScores{
					HistoryMultiplier: 1.5,
					HistoryMinRatio:   0.2,
					AreaCode:          0.9,
					Repeated:          0.7,
					Sequential:        0.7,
					ShortCode:         0.8,
					Premium:           0.9,
					Invalid:           0.5,
				},
				SpamAreaCodes: []string{
					"419", "709", "900", "876", "284", "473", "268", "809",
				},
				PremiumPrefixes: []string{
					"900", "976", "809", "284", "473", "268", "876", "649",
				},
			},
			Text: TextConfig{
				Keywords: []string{
					"free", "win", "winner", "won", "prize", "urgent", "offer",
					"guaranteed", "instant", "casino", "bonus", "lucky",
					"selected", "verify", "account", "suspended", "inheritance",
					"limited", "click", "opportunity", "investment", "discount",
					"claim", "exclusive", "expires", "password", "action",
					"required", "cash", "congratulations",
				},
				UrgencyPhrases: []string{
					"urgent", "immediate", "now", "hurry", "limited", "act fast",
				},
				LinkIndicators: []string{
					"http", "www", ".com", ".net", ".org", "click", "link",
				},
				ExtraStopwords: []string{},
				Scores: TextPatternScores{
					KeywordDensity: 1.0,
					Exclamation:    0.4,
					Caps:           0.5,
					CapsMinRatio:   0.2,
					Currency:       0.6,
					Urgency:        0.7,
					Link:           0.6,
				},
			},
			Features: FeatureToggles{
				PhoneValidity: false,
			},
		},
		Learning: LearningConfig{
			Backend:         "memory",
			SmoothingFactor: 1.0,
			ModelPath:       "smsguard-model.json",
			Redis: RedisBackendConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "smsguard:bayes",
				DatabaseNum: 0,
			},
		},
		Dataset: DatasetConfig{
			Path: "dataset.csv",
		},
		Server: ServerConfig{
			Address:           ":8080",
			ShutdownTimeoutMs: 10000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Detection.SpamThreshold < 0 || c.Detection.SpamThreshold >= 1 {
		return fmt.Errorf("spam_threshold must be in [0, 1)")
	}

	w := c.Detection.Weights
	if w.Phone < 0 || w.Text < 0 || w.Classifier < 0 {
		return fmt.Errorf("fusion weights must be >= 0")
	}
	if w.Phone+w.Text+w.Classifier == 0 {
		return fmt.Errorf("at least one fusion weight must be > 0")
	}

	if c.Learning.Backend != "memory" && c.Learning.Backend != "redis" {
		return fmt.Errorf("learning backend must be 'memory' or 'redis'")
	}

	if c.Learning.SmoothingFactor <= 0 {
		return fmt.Errorf("smoothing_factor must be > 0")
	}

	if c.Learning.Backend == "redis" && c.Learning.Redis.RedisURL == "" {
		return fmt.Errorf("redis_url cannot be empty when the redis backend is selected")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	return nil
}
