package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reachpoint/provider-verify/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "provider-verify",
	Short: "Practice website verification for healthcare providers",
	Long:  "Searches the web for a provider's practice website, scores each candidate against directory, social, and hospital heuristics, and reports the best match.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
