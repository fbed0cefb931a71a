package detector

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/content"
	"github.com/smsguard/spam-detector/pkg/learning"
	"github.com/smsguard/spam-detector/pkg/phone"
	"github.com/smsguard/spam-detector/pkg/textproc"
)

// TrainingRecord is one labeled message. Text and Phone are optional; an
// empty string means absent.
type TrainingRecord struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Phone string `json:"phone"`
}

// PredictionResult is the engine's verdict for one message
type PredictionResult struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ModelInfo describes the trained state of a model
type ModelInfo struct {
	Trained     bool                `json:"trained"`
	Profiles    int                 `json:"phone_profiles"`
	Blacklisted int                 `json:"blacklisted_numbers"`
	Classifier  *learning.ModelInfo `json:"classifier,omitempty"`
}

// SpamDetectionModel fuses phone heuristics, text heuristics and a Bayesian
// text classifier into a single spam verdict. It starts untrained; Train
// builds all derived state (phone profiles, blacklist, classifier tables)
// from a labeled dataset and Predict serves read-only verdicts afterward.
//
// Train holds exclusive access for its duration; Predict is safe for any
// number of concurrent callers between trainings.
type SpamDetectionModel struct {
	mu  sync.RWMutex
	cfg *config.Config

	preprocessor *textproc.Preprocessor
	textAnalyzer *content.Analyzer

	profiles      *phone.ProfileStore
	phoneAnalyzer *phone.Analyzer
	classifier    learning.Classifier

	trained bool
}

// New creates an untrained model from configuration. The redis learning
// backend connects eagerly so a misconfigured Redis fails at startup.
func New(cfg *config.Config) (*SpamDetectionModel, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	preprocessor := textproc.NewPreprocessor(cfg.Detection.Text.ExtraStopwords)

	m := &SpamDetectionModel{
		cfg:          cfg,
		preprocessor: preprocessor,
		textAnalyzer: content.NewAnalyzer(cfg.Detection.Text, preprocessor),
	}

	profiles := phone.NewProfileStore()
	m.profiles = profiles
	m.phoneAnalyzer = phone.NewAnalyzer(cfg.Detection.Phone, cfg.Detection.Features, profiles)

	classifier, err := m.newClassifier()
	if err != nil {
		return nil, err
	}
	m.classifier = classifier

	return m, nil
}

// newClassifier builds a classifier for the configured backend
func (m *SpamDetectionModel) newClassifier() (learning.Classifier, error) {
	switch m.cfg.Learning.Backend {
	case "redis":
		redisConfig := &learning.RedisConfig{
			RedisURL:        m.cfg.Learning.Redis.RedisURL,
			KeyPrefix:       m.cfg.Learning.Redis.KeyPrefix,
			DatabaseNum:     m.cfg.Learning.Redis.DatabaseNum,
			SmoothingFactor: m.cfg.Learning.SmoothingFactor,
		}
		classifier, err := learning.NewRedisClassifier(redisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis classifier: %v", err)
		}
		return classifier, nil
	default:
		return learning.NewNaiveBayes(m.cfg.Learning.SmoothingFactor), nil
	}
}

// Train rebuilds all derived state from the dataset and transitions the
// model to Trained. Retraining replaces prior state entirely; there is no
// incremental merge. Readers are blocked for the duration, so they never
// observe a partially rebuilt model. A failed rebuild keeps the previous
// model serving on the memory backend; the redis backend rebuilds in place,
// so a failure there transitions the model back to Untrained.
func (m *SpamDetectionModel) Train(dataset []TrainingRecord) error {
	if len(dataset) == 0 {
		return ErrInvalidDataset
	}

	// Validate labels up front so training never partially applies
	for i, record := range dataset {
		if record.Label != learning.LabelSpam && record.Label != learning.LabelHam {
			return fmt.Errorf("%w: record %d has label %q", ErrInvalidDataset, i, record.Label)
		}
	}

	// Phone statistics and blacklist build off to the side
	profiles := phone.NewProfileStore()
	for _, record := range dataset {
		if record.Phone == "" {
			continue
		}
		number := phone.Normalize(record.Phone)
		if number == "" {
			continue
		}
		profiles.Record(number, record.Label == learning.LabelSpam)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	classifier, err := m.resetClassifier()
	if err != nil {
		return m.trainFailed(err)
	}

	for _, record := range dataset {
		if record.Text == "" {
			continue
		}
		tokens := m.preprocessor.Preprocess(record.Text)
		if err := classifier.AddDocument(tokens, record.Label); err != nil {
			return m.trainFailed(fmt.Errorf("failed to add training document: %v", err))
		}
	}

	if err := classifier.Train(); err != nil {
		return m.trainFailed(err)
	}

	m.profiles = profiles
	m.phoneAnalyzer = phone.NewAnalyzer(m.cfg.Detection.Phone, m.cfg.Detection.Features, profiles)
	m.classifier = classifier
	m.trained = true

	return nil
}

// resetClassifier returns a fresh classifier for retraining. The memory
// backend gets a new instance; the redis backend clears its keys in place.
func (m *SpamDetectionModel) resetClassifier() (learning.Classifier, error) {
	if m.cfg.Learning.Backend == "redis" {
		if err := m.classifier.Reset(); err != nil {
			return nil, fmt.Errorf("failed to reset classifier: %v", err)
		}
		return m.classifier, nil
	}
	return learning.NewNaiveBayes(m.cfg.Learning.SmoothingFactor), nil
}

// trainFailed reports a failed classifier rebuild. The memory backend
// builds into a fresh instance, so the previous model stays intact; the
// redis backend rebuilds in place, so after a partial rebuild the model
// must stop serving. Caller holds the write lock.
func (m *SpamDetectionModel) trainFailed(err error) error {
	if m.cfg.Learning.Backend == "redis" {
		m.trained = false
	}
	return err
}

// Predict classifies a message. Empty strings are treated as absent input.
func (m *SpamDetectionModel) Predict(text, phoneNumber string) (*PredictionResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return nil, ErrNotTrained
	}
	if text == "" && phoneNumber == "" {
		return nil, ErrMissingInput
	}

	phoneAnalysis := m.phoneAnalyzer.Analyze(phoneNumber)
	textAnalysis := m.textAnalyzer.Analyze(text)

	var classifierScore float64
	if text != "" {
		tokens := m.preprocessor.Preprocess(text)
		score, err := m.classifier.Classify(tokens)
		if err != nil {
			return nil, fmt.Errorf("classifier failed: %v", err)
		}
		classifierScore = score
	}

	weights := m.cfg.Detection.Weights
	combined := phoneAnalysis.Score*weights.Phone +
		textAnalysis.Score*weights.Text +
		classifierScore*weights.Classifier
	combined = clamp01(combined)

	prediction := learning.LabelHam
	if combined > m.cfg.Detection.SpamThreshold {
		prediction = learning.LabelSpam
	}

	reasons := make([]string, 0, len(phoneAnalysis.Reasons)+len(textAnalysis.Reasons))
	reasons = append(reasons, phoneAnalysis.Reasons...)
	reasons = append(reasons, textAnalysis.Reasons...)

	reason := strings.Join(reasons, " | ")
	if reason == "" {
		if prediction == learning.LabelSpam {
			reason = "[ANALYSIS] Multiple spam indicators detected"
		} else {
			reason = "[ANALYSIS] No spam indicators found"
		}
	}

	return &PredictionResult{
		Prediction: prediction,
		Confidence: round3(combined),
		Reason:     reason,
	}, nil
}

// Trained reports whether the model has completed training
func (m *SpamDetectionModel) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.trained
}

// Info returns statistics about the trained model
func (m *SpamDetectionModel) Info() *ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := &ModelInfo{
		Trained:     m.trained,
		Profiles:    m.profiles.Len(),
		Blacklisted: m.profiles.BlacklistLen(),
	}

	if nb, ok := m.classifier.(*learning.NaiveBayes); ok {
		classifierInfo := nb.Info()
		info.Classifier = &classifierInfo
	}

	return info
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
