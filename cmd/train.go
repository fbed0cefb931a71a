package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/dataset"
	"github.com/smsguard/spam-detector/pkg/detector"
)

var (
	trainDataPath  string
	trainModelPath string
	trainConfig    string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the spam detection model",
	Long: `Train the spam detection model from a labeled CSV dataset
(text,label,phone columns) and save it to a model file.

Training builds the phone blacklist, per-number spam statistics and the
Bayesian classifier vocabulary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(trainConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if trainDataPath != "" {
			cfg.Dataset.Path = trainDataPath
		}
		if trainModelPath != "" {
			cfg.Learning.ModelPath = trainModelPath
		}

		fmt.Printf("🧠 smsguard Training\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("📁 Dataset: %s\n", cfg.Dataset.Path)
		fmt.Printf("💾 Model path: %s\n", cfg.Learning.ModelPath)
		fmt.Printf("\n")

		records, stats, err := dataset.Load(cfg.Dataset.Path)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %v", err)
		}
		if stats.Skipped > 0 {
			fmt.Printf("⚠️  Skipped %d malformed rows\n", stats.Skipped)
		}

		model, err := detector.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create model: %v", err)
		}

		start := time.Now()
		if err := model.Train(records); err != nil {
			return fmt.Errorf("training failed: %v", err)
		}
		duration := time.Since(start)

		if err := model.SaveModel(cfg.Learning.ModelPath); err != nil {
			return fmt.Errorf("failed to save model: %v", err)
		}

		info := model.Info()

		fmt.Printf("🎉 Training Complete!\n")
		fmt.Printf("📊 Records processed: %d\n", stats.Loaded)
		fmt.Printf("📞 Phone profiles: %d (%d blacklisted)\n", info.Profiles, info.Blacklisted)
		if info.Classifier != nil {
			fmt.Printf("📚 Classifier: %d spam / %d ham documents, %d word vocabulary\n",
				info.Classifier.SpamDocuments, info.Classifier.HamDocuments, info.Classifier.VocabularySize)
		}
		fmt.Printf("⏱️  Time taken: %v\n", duration)
		fmt.Printf("💾 Model saved to: %s\n", cfg.Learning.ModelPath)

		return nil
	},
}

func init() {
	trainCmd.Flags().StringVarP(&trainDataPath, "dataset", "d", "", "Training dataset CSV (overrides config)")
	trainCmd.Flags().StringVarP(&trainModelPath, "model", "m", "", "Path to save model (overrides config)")
	trainCmd.Flags().StringVarP(&trainConfig, "config", "c", "", "Configuration file path")
}
