package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/smsguard/spam-detector/pkg/learning"
	"github.com/smsguard/spam-detector/pkg/phone"
)

// modelSnapshot is the JSON on-disk format for a trained model. The
// blacklist is derivable from profile spam counts but stored explicitly so
// the file reads as a complete description of the model.
type modelSnapshot struct {
	Profiles   []phone.Profile    `json:"phone_profiles"`
	Blacklist  []string           `json:"blacklist"`
	Classifier *learning.Snapshot `json:"classifier,omitempty"`
	SavedAt    time.Time          `json:"saved_at"`
}

// SaveModel writes a trained model to a JSON file. With the redis backend
// only the phone state is written; classifier counts live in Redis.
func (m *SpamDetectionModel) SaveModel(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return ErrNotTrained
	}

	snapshot := modelSnapshot{
		Profiles: m.profiles.Snapshot(),
		SavedAt:  time.Now(),
	}

	for _, profile := range snapshot.Profiles {
		if profile.SpamCount > 0 {
			snapshot.Blacklist = append(snapshot.Blacklist, profile.Number)
		}
	}

	if nb, ok := m.classifier.(*learning.NaiveBayes); ok {
		snapshot.Classifier = nb.Snapshot()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode model: %v", err)
	}

	return nil
}

// LoadModel restores a model from a JSON file and marks it Trained
func (m *SpamDetectionModel) LoadModel(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open model file: %v", err)
	}
	defer file.Close()

	var snapshot modelSnapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode model: %v", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	profiles := phone.NewProfileStore()
	profiles.Restore(snapshot.Profiles)

	if snapshot.Classifier != nil {
		nb, ok := m.classifier.(*learning.NaiveBayes)
		if !ok {
			nb = learning.NewNaiveBayes(m.cfg.Learning.SmoothingFactor)
			m.classifier = nb
		}
		nb.Restore(snapshot.Classifier)
	}

	m.profiles = profiles
	m.phoneAnalyzer = phone.NewAnalyzer(m.cfg.Detection.Phone, m.cfg.Detection.Features, profiles)
	m.trained = true

	return nil
}
