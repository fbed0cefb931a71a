package learning

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Separate database and key prefix so tests never touch live classifier keys
var testRedisConfig = &RedisConfig{
	RedisURL:        "redis://localhost:6379",
	KeyPrefix:       "smsguard:test:bayes",
	DatabaseNum:     1,
	SmoothingFactor: 1.0,
}

func newTestRedisClassifier(t *testing.T) *RedisClassifier {
	t.Helper()

	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	rc, err := NewRedisClassifier(testRedisConfig)
	if err != nil {
		t.Fatalf("Failed to create Redis classifier: %v", err)
	}
	if err := rc.Reset(); err != nil {
		t.Fatalf("Failed to clear test keys: %v", err)
	}

	t.Cleanup(func() {
		rc.Reset()
		rc.Close()
	})

	return rc
}

func TestRedisClassifierCreation(t *testing.T) {
	rc := newTestRedisClassifier(t)

	if rc.client == nil {
		t.Error("Redis client should not be nil")
	}
	if rc.config.KeyPrefix != testRedisConfig.KeyPrefix {
		t.Errorf("unexpected key prefix: %s", rc.config.KeyPrefix)
	}
}

func TestRedisClassifyWithoutSpamDocuments(t *testing.T) {
	rc := newTestRedisClassifier(t)

	// A classifier that never saw spam must report zero spam probability
	score, err := rc.Classify([]string{"free", "prize"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if score != 0 {
		t.Errorf("expected 0 for classifier without spam documents, got %.3f", score)
	}

	if err := rc.AddDocument([]string{"meeting"}, LabelHam); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if err := rc.Train(); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	score, _ = rc.Classify([]string{"free"})
	if score != 0 {
		t.Errorf("expected 0 for ham-only classifier, got %.3f", score)
	}
}

func TestRedisClassifyWithoutHamDocuments(t *testing.T) {
	rc := newTestRedisClassifier(t)

	if err := rc.AddDocument([]string{"free", "prize"}, LabelSpam); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if err := rc.Train(); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	score, err := rc.Classify([]string{"meeting"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if score != 1 {
		t.Errorf("expected 1 for spam-only classifier, got %.3f", score)
	}
}

func TestRedisClassifyRoundTrip(t *testing.T) {
	rc := newTestRedisClassifier(t)

	// Same fixture as the memory backend tests, so both backends must
	// produce the same posterior
	docs := []struct {
		tokens []string
		label  string
	}{
		{[]string{"free", "prize"}, LabelSpam},
		{[]string{"free", "cash"}, LabelSpam},
		{[]string{"meeting", "lunch"}, LabelHam},
		{[]string{"report", "meeting"}, LabelHam},
	}

	for _, doc := range docs {
		if err := rc.AddDocument(doc.tokens, doc.label); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}
	if err := rc.Train(); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	spamScore, err := rc.Classify([]string{"free"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	hamScore, err := rc.Classify([]string{"meeting"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if spamScore <= 0.5 {
		t.Errorf("spam token scored %.3f, expected > 0.5", spamScore)
	}
	if hamScore >= 0.5 {
		t.Errorf("ham token scored %.3f, expected < 0.5", hamScore)
	}

	// With equal priors and add-one smoothing over a 6-token vocabulary:
	// P(free|spam) = 3/10, P(free|ham) = 1/10, posterior = 0.75
	if math.Abs(spamScore-0.75) > 1e-9 {
		t.Errorf("expected posterior 0.75 for spam token, got %.6f", spamScore)
	}

	if err := rc.AddDocument([]string{"free"}, "maybe"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestRedisReset(t *testing.T) {
	rc := newTestRedisClassifier(t)

	if err := rc.AddDocument([]string{"free", "prize"}, LabelSpam); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if err := rc.Train(); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	score, _ := rc.Classify([]string{"free"})
	if score != 1 {
		t.Fatalf("expected trained classifier before reset, got %.3f", score)
	}

	if err := rc.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	// All keys under the prefix are gone
	for _, key := range []string{rc.statsKey(), rc.vocabKey(), rc.tokenKey("free")} {
		exists, err := rc.client.Exists(rc.ctx, key).Result()
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if exists != 0 {
			t.Errorf("key %s survived reset", key)
		}
	}

	score, err := rc.Classify([]string{"free"})
	if err != nil {
		t.Fatalf("Classify failed after reset: %v", err)
	}
	if score != 0 {
		t.Errorf("expected 0 after reset, got %.3f", score)
	}
}

// Helper function to check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use test database
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}
