package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smsguard",
	Short: "smsguard - message spam detector",
	Long: `smsguard classifies messages as spam or ham from their text and sender
phone number. It combines phone risk heuristics, text style heuristics and a
trained Bayesian classifier into one weighted verdict with a human-readable
justification.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("smsguard - message spam detector")
		fmt.Println("Use 'smsguard --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(configCmd)
}
