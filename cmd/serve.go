package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smsguard/spam-detector/pkg/config"
	"github.com/smsguard/spam-detector/pkg/dataset"
	"github.com/smsguard/spam-detector/pkg/detector"
	"github.com/smsguard/spam-detector/pkg/server"
)

var (
	serveAddress   string
	serveDataPath  string
	serveModelPath string
	serveConfig    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the spam detection HTTP API",
	Long: `Run the HTTP API server. The model is loaded from a saved model file
when one exists, otherwise trained from the configured dataset at startup.

Endpoints:
  POST /analyze  classify a message {"text": ..., "phone": ...}
  POST /train    retrain from a JSON array of records
  GET  /health   liveness and trained state
  GET  /stats    model statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(serveConfig)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}
		if serveDataPath != "" {
			cfg.Dataset.Path = serveDataPath
		}
		if serveModelPath != "" {
			cfg.Learning.ModelPath = serveModelPath
		}

		model, err := detector.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create model: %v", err)
		}

		// Prefer a saved model, fall back to training from the dataset
		if err := model.LoadModel(cfg.Learning.ModelPath); err == nil {
			fmt.Printf("📚 Loaded model from: %s\n", cfg.Learning.ModelPath)
		} else {
			records, stats, err := dataset.Load(cfg.Dataset.Path)
			if err != nil {
				return fmt.Errorf("no saved model and failed to load dataset: %v", err)
			}
			if err := model.Train(records); err != nil {
				return fmt.Errorf("startup training failed: %v", err)
			}
			fmt.Printf("🧠 Trained on %d records from %s\n", stats.Loaded, cfg.Dataset.Path)
		}

		srv := server.New(cfg.Server, cfg.Logging.Level, model)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Run()
		}()

		fmt.Printf("🚀 smsguard listening on %s\n", cfg.Server.Address)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			fmt.Printf("\n🛑 Received %v, shutting down...\n", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutMs)*time.Millisecond)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %v", err)
		}

		fmt.Printf("✅ Server stopped\n")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVarP(&serveDataPath, "dataset", "d", "", "Training dataset CSV (overrides config)")
	serveCmd.Flags().StringVarP(&serveModelPath, "model", "m", "", "Saved model path (overrides config)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Configuration file path")
}
