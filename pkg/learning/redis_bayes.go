package learning

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis classifier configuration
type RedisConfig struct {
	RedisURL        string  `json:"redis_url" yaml:"redis_url"`
	KeyPrefix       string  `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum     int     `json:"database_num" yaml:"database_num"`
	SmoothingFactor float64 `json:"smoothing_factor" yaml:"smoothing_factor"`
}

// DefaultRedisConfig returns default Redis classifier configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:        "redis://localhost:6379",
		KeyPrefix:       "smsguard:bayes",
		DatabaseNum:     0,
		SmoothingFactor: 1.0,
	}
}

// RedisClassifier implements the Classifier contract on top of Redis
// hashes: one hash per token holding spam/ham counts, a stats hash for
// document and token totals, and a set for vocabulary cardinality.
type RedisClassifier struct {
	client *redis.Client
	config *RedisConfig
	ctx    context.Context
}

// NewRedisClassifier creates a Redis-backed classifier and verifies the
// connection
func NewRedisClassifier(config *RedisConfig) (*RedisClassifier, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.SmoothingFactor <= 0 {
		config.SmoothingFactor = 1.0
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %v", err)
	}

	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis connection failed: %v", err)
	}

	return &RedisClassifier{
		client: client,
		config: config,
		ctx:    ctx,
	}, nil
}

// AddDocument accumulates one labeled token sequence
func (rc *RedisClassifier) AddDocument(tokens []string, label string) error {
	if label != LabelSpam && label != LabelHam {
		return fmt.Errorf("unknown label: %q", label)
	}

	pipe := rc.client.Pipeline()

	for _, token := range tokens {
		pipe.HIncrBy(rc.ctx, rc.tokenKey(token), label, 1)
		pipe.SAdd(rc.ctx, rc.vocabKey(), token)
	}

	pipe.HIncrBy(rc.ctx, rc.statsKey(), label+"_docs", 1)
	pipe.HIncrBy(rc.ctx, rc.statsKey(), label+"_tokens", int64(len(tokens)))

	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("training failed: %v", err)
	}

	return nil
}

// Train marks the accumulated counts as complete
func (rc *RedisClassifier) Train() error {
	err := rc.client.HSet(rc.ctx, rc.statsKey(), "last_trained", time.Now().Unix()).Err()
	if err != nil {
		return fmt.Errorf("failed to finalize training: %v", err)
	}
	return nil
}

// Classify returns the posterior probability of the spam label for a token
// sequence. A classifier that never saw spam-labeled text returns 0.
func (rc *RedisClassifier) Classify(tokens []string) (float64, error) {
	stats, err := rc.client.HGetAll(rc.ctx, rc.statsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get classifier stats: %v", err)
	}

	spamDocs, _ := strconv.Atoi(stats["spam_docs"])
	hamDocs, _ := strconv.Atoi(stats["ham_docs"])
	spamTokens, _ := strconv.Atoi(stats["spam_tokens"])
	hamTokens, _ := strconv.Atoi(stats["ham_tokens"])

	if spamDocs == 0 {
		return 0, nil
	}
	if hamDocs == 0 {
		return 1, nil
	}

	vocabSize, err := rc.client.SCard(rc.ctx, rc.vocabKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get vocabulary size: %v", err)
	}

	totalDocs := float64(spamDocs + hamDocs)
	logSpam := math.Log(float64(spamDocs) / totalDocs)
	logHam := math.Log(float64(hamDocs) / totalDocs)

	if vocabSize > 0 && len(tokens) > 0 {
		pipe := rc.client.Pipeline()
		tokenCmds := make([]*redis.MapStringStringCmd, len(tokens))
		for i, token := range tokens {
			tokenCmds[i] = pipe.HGetAll(rc.ctx, rc.tokenKey(token))
		}
		if _, err := pipe.Exec(rc.ctx); err != nil && err != redis.Nil {
			return 0, fmt.Errorf("failed to get token stats: %v", err)
		}

		k := rc.config.SmoothingFactor
		spamDenom := float64(spamTokens) + k*float64(vocabSize)
		hamDenom := float64(hamTokens) + k*float64(vocabSize)

		for _, cmd := range tokenCmds {
			counts := cmd.Val()
			spamCount, _ := strconv.Atoi(counts[LabelSpam])
			hamCount, _ := strconv.Atoi(counts[LabelHam])

			logSpam += math.Log((float64(spamCount) + k) / spamDenom)
			logHam += math.Log((float64(hamCount) + k) / hamDenom)
		}
	}

	maxLog := math.Max(logSpam, logHam)
	spamProb := math.Exp(logSpam - maxLog)
	hamProb := math.Exp(logHam - maxLog)

	return spamProb / (spamProb + hamProb), nil
}

// Reset deletes all classifier keys under the configured prefix
func (rc *RedisClassifier) Reset() error {
	pattern := rc.config.KeyPrefix + ":*"
	iter := rc.client.Scan(rc.ctx, 0, pattern, 1000).Iterator()

	pipe := rc.client.Pipeline()
	count := 0

	for iter.Next(rc.ctx) {
		pipe.Del(rc.ctx, iter.Val())
		count++

		// Execute in batches
		if count >= 100 {
			if _, err := pipe.Exec(rc.ctx); err != nil {
				return err
			}
			pipe = rc.client.Pipeline()
			count = 0
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if count > 0 {
		_, err := pipe.Exec(rc.ctx)
		return err
	}

	return nil
}

// Close closes the Redis connection
func (rc *RedisClassifier) Close() error {
	return rc.client.Close()
}

func (rc *RedisClassifier) statsKey() string {
	return rc.config.KeyPrefix + ":stats"
}

func (rc *RedisClassifier) vocabKey() string {
	return rc.config.KeyPrefix + ":vocab"
}

func (rc *RedisClassifier) tokenKey(token string) string {
	return fmt.Sprintf("%s:token:%s", rc.config.KeyPrefix, token)
}
