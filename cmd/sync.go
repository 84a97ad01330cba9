package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/popup-studio-ai/bkit-guide/internal/app"
	"github.com/popup-studio-ai/bkit-guide/internal/config"
	"github.com/popup-studio-ai/bkit-guide/internal/log"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the official documentation into the knowledge base",
	Long: `Fetches the documentation files from the configured GitHub repository,
chunks and embeds them, and replaces the documentation index.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSync(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Embedding goes through the model API, so sync needs the same
	// credential checks as serve.
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := log.New(log.Config{})

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	report := a.Syncer.Sync(ctx)

	fmt.Printf("Files processed: %d\n", report.FilesProcessed)
	fmt.Printf("Chunks indexed:  %d\n", report.ChunksIndexed)
	for _, e := range report.Errors {
		fmt.Printf("  %s\n", e)
	}
	if !report.Success {
		return fmt.Errorf("sync failed with %d error(s)", len(report.Errors))
	}
	return nil
}
