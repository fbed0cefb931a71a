package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/dataset"
	"github.com/smsguard/spam-detector/pkg/detector"
	"github.com/smsguard/spam-detector/pkg/learning"
)

var (
	evalTrainPath string
	evalTestPath  string
	evalConfig    string
	evalVerbose   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate model accuracy on a labeled dataset",
	Long: `Train on one labeled CSV dataset and measure prediction quality on
another (or the same) labeled CSV: accuracy, precision, recall and
per-message latency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(evalConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if evalTrainPath == "" {
			evalTrainPath = cfg.Dataset.Path
		}
		if evalTestPath == "" {
			evalTestPath = evalTrainPath
		}

		trainRecords, trainStats, err := dataset.Load(evalTrainPath)
		if err != nil {
			return fmt.Errorf("failed to load training dataset: %v", err)
		}

		testRecords, testStats, err := dataset.Load(evalTestPath)
		if err != nil {
			return fmt.Errorf("failed to load test dataset: %v", err)
		}

		model, err := detector.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create model: %v", err)
		}

		trainStart := time.Now()
		if err := model.Train(trainRecords); err != nil {
			return fmt.Errorf("training failed: %v", err)
		}
		trainDuration := time.Since(trainStart)

		var truePos, trueNeg, falsePos, falseNeg int
		predictStart := time.Now()

		for _, record := range testRecords {
			result, err := model.Predict(record.Text, record.Phone)
			if err != nil {
				return fmt.Errorf("prediction failed: %v", err)
			}

			actualSpam := record.Label == learning.LabelSpam
			predictedSpam := result.Prediction == learning.LabelSpam

			switch {
			case actualSpam && predictedSpam:
				truePos++
			case !actualSpam && !predictedSpam:
				trueNeg++
			case !actualSpam && predictedSpam:
				falsePos++
				if evalVerbose {
					fmt.Printf("⚠️  False positive (%.3f): %q / %q\n", result.Confidence, record.Text, record.Phone)
				}
			default:
				falseNeg++
				if evalVerbose {
					fmt.Printf("⚠️  False negative (%.3f): %q / %q\n", result.Confidence, record.Text, record.Phone)
				}
			}
		}
		predictDuration := time.Since(predictStart)

		total := len(testRecords)
		accuracy := percent(truePos+trueNeg, total)
		precision := percent(truePos, truePos+falsePos)
		recall := percent(truePos, truePos+falseNeg)

		fmt.Printf("📊 smsguard Evaluation\n")
		fmt.Printf("═══════════════════════════════════════\n")
		fmt.Printf("Training set: %s (%d records, %d skipped)\n", evalTrainPath, trainStats.Loaded, trainStats.Skipped)
		fmt.Printf("Test set: %s (%d records, %d skipped)\n", evalTestPath, testStats.Loaded, testStats.Skipped)
		fmt.Printf("\n")
		fmt.Printf("Accuracy:  %.1f%%\n", accuracy)
		fmt.Printf("Precision: %.1f%%\n", precision)
		fmt.Printf("Recall:    %.1f%%\n", recall)
		fmt.Printf("Spam: %d detected / %d missed, Ham: %d clean / %d flagged\n",
			truePos, falseNeg, trueNeg, falsePos)
		fmt.Printf("\n")
		fmt.Printf("Training time: %v\n", trainDuration)
		if total > 0 {
			fmt.Printf("Prediction time: %.3fms per message\n",
				float64(predictDuration.Nanoseconds())/float64(total)/1e6)
		}

		return nil
	},
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func init() {
	evaluateCmd.Flags().StringVar(&evalTrainPath, "train", "", "Training dataset CSV (defaults to configured dataset)")
	evaluateCmd.Flags().StringVar(&evalTestPath, "test", "", "Test dataset CSV (defaults to the training dataset)")
	evaluateCmd.Flags().StringVarP(&evalConfig, "config", "c", "", "Configuration file path")
	evaluateCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Print misclassified messages")
}
