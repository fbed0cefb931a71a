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
	predictText      string
	predictPhone     string
	predictModelPath string
	predictDataPath  string
	predictConfig    string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify a single message",
	Long: `Classify one message from its text and/or phone number.

Loads a saved model when --model points at one, otherwise trains from the
configured dataset first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictText == "" && predictPhone == "" {
			return fmt.Errorf("at least one of --text or --phone must be specified")
		}

		cfg, err := config.LoadConfig(predictConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if predictModelPath != "" {
			cfg.Learning.ModelPath = predictModelPath
		}
		if predictDataPath != "" {
			cfg.Dataset.Path = predictDataPath
		}

		model, err := detector.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create model: %v", err)
		}

		if err := model.LoadModel(cfg.Learning.ModelPath); err != nil {
			fmt.Printf("⚠️  No saved model (%v), training from %s\n", err, cfg.Dataset.Path)
			records, _, err := dataset.Load(cfg.Dataset.Path)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %v", err)
			}
			if err := model.Train(records); err != nil {
				return fmt.Errorf("training failed: %v", err)
			}
		}

		start := time.Now()
		result, err := model.Predict(predictText, predictPhone)
		if err != nil {
			return fmt.Errorf("prediction failed: %v", err)
		}
		duration := time.Since(start)

		fmt.Printf("smsguard Prediction:\n")
		if predictText != "" {
			fmt.Printf("Text: %s\n", predictText)
		}
		if predictPhone != "" {
			fmt.Printf("Phone: %s\n", predictPhone)
		}
		fmt.Printf("Prediction: %s\n", result.Prediction)
		fmt.Printf("Confidence: %.3f\n", result.Confidence)
		fmt.Printf("Reason: %s\n", result.Reason)
		fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)

		return nil
	},
}

func init() {
	predictCmd.Flags().StringVarP(&predictText, "text", "t", "", "Message text")
	predictCmd.Flags().StringVarP(&predictPhone, "phone", "p", "", "Sender phone number")
	predictCmd.Flags().StringVarP(&predictModelPath, "model", "m", "", "Saved model path (overrides config)")
	predictCmd.Flags().StringVarP(&predictDataPath, "dataset", "d", "", "Training dataset CSV (overrides config)")
	predictCmd.Flags().StringVarP(&predictConfig, "config", "c", "", "Configuration file path")
}
