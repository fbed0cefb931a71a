package learning

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// NaiveBayes is a multinomial naive Bayes classifier over preprocessed
// token sequences. Token counts accumulate per label via AddDocument; Train
// freezes them (vocabulary size, priors) for classification. Each instance
// owns its own tables, so multiple trained models can coexist.
type NaiveBayes struct {
	mu sync.RWMutex

	// Per-label token frequency tables
	spamTokens map[string]int
	hamTokens  map[string]int

	// Totals
	totalSpamTokens int
	totalHamTokens  int
	spamDocs        int
	hamDocs         int

	// Laplace smoothing factor
	smoothing float64

	// Frozen at Train
	vocabularySize int
	lastTrained    time.Time
}

// NewNaiveBayes creates an untrained classifier. A non-positive smoothing
// factor falls back to add-one smoothing.
func NewNaiveBayes(smoothing float64) *NaiveBayes {
	if smoothing <= 0 {
		smoothing = 1.0
	}

	return &NaiveBayes{
		spamTokens: make(map[string]int),
		hamTokens:  make(map[string]int),
		smoothing:  smoothing,
	}
}

// AddDocument accumulates one labeled token sequence
func (nb *NaiveBayes) AddDocument(tokens []string, label string) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	switch label {
	case LabelSpam:
		for _, token := range tokens {
			nb.spamTokens[token]++
			nb.totalSpamTokens++
		}
		nb.spamDocs++
	case LabelHam:
		for _, token := range tokens {
			nb.hamTokens[token]++
			nb.totalHamTokens++
		}
		nb.hamDocs++
	default:
		return fmt.Errorf("unknown label: %q", label)
	}

	return nil
}

// Train finalizes the accumulated counts into the probability tables used
// by Classify
func (nb *NaiveBayes) Train() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	vocab := len(nb.spamTokens)
	for token := range nb.hamTokens {
		if _, exists := nb.spamTokens[token]; !exists {
			vocab++
		}
	}

	nb.vocabularySize = vocab
	nb.lastTrained = time.Now()

	return nil
}

// Classify returns the posterior probability of the spam label for a token
// sequence. A classifier that never saw spam-labeled text returns 0.
func (nb *NaiveBayes) Classify(tokens []string) (float64, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if nb.spamDocs == 0 {
		return 0, nil
	}
	if nb.hamDocs == 0 {
		return 1, nil
	}

	totalDocs := float64(nb.spamDocs + nb.hamDocs)
	logSpam := math.Log(float64(nb.spamDocs) / totalDocs)
	logHam := math.Log(float64(nb.hamDocs) / totalDocs)

	if nb.vocabularySize > 0 {
		spamDenom := float64(nb.totalSpamTokens) + nb.smoothing*float64(nb.vocabularySize)
		hamDenom := float64(nb.totalHamTokens) + nb.smoothing*float64(nb.vocabularySize)

		for _, token := range tokens {
			logSpam += math.Log((float64(nb.spamTokens[token]) + nb.smoothing) / spamDenom)
			logHam += math.Log((float64(nb.hamTokens[token]) + nb.smoothing) / hamDenom)
		}
	}

	// Normalize in log space to avoid underflow on long messages
	maxLog := math.Max(logSpam, logHam)
	spamProb := math.Exp(logSpam - maxLog)
	hamProb := math.Exp(logHam - maxLog)

	return spamProb / (spamProb + hamProb), nil
}

// Reset clears all learned state
func (nb *NaiveBayes) Reset() error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	nb.spamTokens = make(map[string]int)
	nb.hamTokens = make(map[string]int)
	nb.totalSpamTokens = 0
	nb.totalHamTokens = 0
	nb.spamDocs = 0
	nb.hamDocs = 0
	nb.vocabularySize = 0
	nb.lastTrained = time.Time{}

	return nil
}

// ModelInfo contains classifier statistics
type ModelInfo struct {
	SpamDocuments  int       `json:"spam_documents"`
	HamDocuments   int       `json:"ham_documents"`
	VocabularySize int       `json:"vocabulary_size"`
	LastTrained    time.Time `json:"last_trained"`
}

// Info returns statistics about the trained classifier
func (nb *NaiveBayes) Info() ModelInfo {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	return ModelInfo{
		SpamDocuments:  nb.spamDocs,
		HamDocuments:   nb.hamDocs,
		VocabularySize: nb.vocabularySize,
		LastTrained:    nb.lastTrained,
	}
}

// Snapshot captures the classifier state for model persistence
type Snapshot struct {
	SpamTokens      map[string]int `json:"spam_tokens"`
	HamTokens       map[string]int `json:"ham_tokens"`
	TotalSpamTokens int            `json:"total_spam_tokens"`
	TotalHamTokens  int            `json:"total_ham_tokens"`
	SpamDocuments   int            `json:"spam_documents"`
	HamDocuments    int            `json:"ham_documents"`
	VocabularySize  int            `json:"vocabulary_size"`
	Smoothing       float64        `json:"smoothing"`
	LastTrained     time.Time      `json:"last_trained"`
}

// Snapshot returns a copy of the classifier state
func (nb *NaiveBayes) Snapshot() *Snapshot {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	spamTokens := make(map[string]int, len(nb.spamTokens))
	for token, count := range nb.spamTokens {
		spamTokens[token] = count
	}
	hamTokens := make(map[string]int, len(nb.hamTokens))
	for token, count := range nb.hamTokens {
		hamTokens[token] = count
	}

	return &Snapshot{
		SpamTokens:      spamTokens,
		HamTokens:       hamTokens,
		TotalSpamTokens: nb.totalSpamTokens,
		TotalHamTokens:  nb.totalHamTokens,
		SpamDocuments:   nb.spamDocs,
		HamDocuments:    nb.hamDocs,
		VocabularySize:  nb.vocabularySize,
		Smoothing:       nb.smoothing,
		LastTrained:     nb.lastTrained,
	}
}

// Restore replaces the classifier state from a snapshot
func (nb *NaiveBayes) Restore(snapshot *Snapshot) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	nb.spamTokens = snapshot.SpamTokens
	nb.hamTokens = snapshot.HamTokens
	if nb.spamTokens == nil {
		nb.spamTokens = make(map[string]int)
	}
	if nb.hamTokens == nil {
		nb.hamTokens = make(map[string]int)
	}
	nb.totalSpamTokens = snapshot.TotalSpamTokens
	nb.totalHamTokens = snapshot.TotalHamTokens
	nb.spamDocs = snapshot.SpamDocuments
	nb.hamDocs = snapshot.HamDocuments
	nb.vocabularySize = snapshot.VocabularySize
	if snapshot.Smoothing > 0 {
		nb.smoothing = snapshot.Smoothing
	}
	nb.lastTrained = snapshot.LastTrained
}
