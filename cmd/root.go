package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "po-insight",
	Short: "Purchase-order delay prediction and vendor analytics",
	Long:  "Cleans raw PO spreadsheet exports, trains a delay classifier, scores uploads against it, and aggregates per-vendor delay statistics.",
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
