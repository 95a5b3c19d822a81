package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/export"
)

var (
	cleanInput  string
	cleanOutput string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize a raw PO spreadsheet into the canonical table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := loadTable(cleanInput)
		if err != nil {
			return err
		}

		b, err := export.TableCSV(table)
		if err != nil {
			return err
		}

		if cleanOutput == "" {
			_, err = cmd.OutOrStdout().Write(b)
			return eris.Wrap(err, "clean: write stdout")
		}
		if err := os.WriteFile(cleanOutput, b, 0o644); err != nil {
			return eris.Wrap(err, "clean: write output")
		}

		zap.L().Info("clean complete",
			zap.String("input", cleanInput),
			zap.String("output", cleanOutput),
			zap.Int("rows", table.Len()),
		)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "path to raw PO .xlsx file (required)")
	cleanCmd.Flags().StringVar(&cleanOutput, "output", "", "path for canonical CSV (default stdout)")
	_ = cleanCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(cleanCmd)
}
