package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smsguard/spam-detector/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage smsguard configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options and documentation`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		// Check if file already exists
		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		defaultConfig := config.DefaultConfig()

		err := defaultConfig.SaveConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to customize spam detection rules\n")
		fmt.Printf("🚀 Use 'smsguard serve --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		// Additional validation checks
		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		// Print summary
		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Spam threshold: %.2f\n", cfg.Detection.SpamThreshold)
		fmt.Printf("  Spam keywords: %d\n", len(cfg.Detection.Text.Keywords))
		fmt.Printf("  Spam area codes: %d\n", len(cfg.Detection.Phone.SpamAreaCodes))
		fmt.Printf("  Premium prefixes: %d\n", len(cfg.Detection.Phone.PremiumPrefixes))
		fmt.Printf("  Classifier backend: %s\n", cfg.Learning.Backend)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("🎯 Spam Detection:\n")
		fmt.Printf("  Threshold: %.2f (combined score above this is spam)\n", cfg.Detection.SpamThreshold)
		fmt.Printf("  Phone validity check: %v\n", cfg.Detection.Features.PhoneValidity)

		fmt.Printf("\n📊 Fusion Weights:\n")
		weights := cfg.Detection.Weights
		fmt.Printf("  Phone heuristics: %.1f\n", weights.Phone)
		fmt.Printf("  Text heuristics: %.1f\n", weights.Text)
		fmt.Printf("  Bayesian classifier: %.1f\n", weights.Classifier)

		fmt.Printf("\n📞 Phone Heuristics:\n")
		fmt.Printf("  Spam area codes: %d\n", len(cfg.Detection.Phone.SpamAreaCodes))
		fmt.Printf("  Premium prefixes: %d\n", len(cfg.Detection.Phone.PremiumPrefixes))

		fmt.Printf("\n📝 Text Heuristics:\n")
		fmt.Printf("  Spam keywords: %d\n", len(cfg.Detection.Text.Keywords))
		fmt.Printf("  Urgency phrases: %d\n", len(cfg.Detection.Text.UrgencyPhrases))
		fmt.Printf("  Link indicators: %d\n", len(cfg.Detection.Text.LinkIndicators))

		fmt.Printf("\n🧠 Learning:\n")
		fmt.Printf("  Backend: %s\n", cfg.Learning.Backend)
		fmt.Printf("  Smoothing factor: %.1f\n", cfg.Learning.SmoothingFactor)
		fmt.Printf("  Model path: %s\n", cfg.Learning.ModelPath)

		fmt.Printf("\n🌐 Server:\n")
		fmt.Printf("  Address: %s\n", cfg.Server.Address)
		fmt.Printf("  Shutdown timeout: %dms\n", cfg.Server.ShutdownTimeoutMs)

		return nil
	},
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Detection.SpamThreshold >= 0.7 {
		warnings = append(warnings, "Spam threshold is high - might miss some spam")
	}
	if cfg.Detection.SpamThreshold < 0.1 {
		warnings = append(warnings, "Spam threshold is very low - might flag too much as spam")
	}

	if len(cfg.Detection.Text.Keywords) == 0 {
		warnings = append(warnings, "No spam keywords defined")
	}
	if len(cfg.Detection.Phone.SpamAreaCodes) == 0 {
		warnings = append(warnings, "No spam area codes defined")
	}

	if cfg.Detection.Weights.Classifier == 0 {
		warnings = append(warnings, "Classifier weight is 0 - training data will not affect verdicts")
	}

	if cfg.Server.ShutdownTimeoutMs < 1000 {
		warnings = append(warnings, "Low shutdown timeout might drop in-flight requests")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
