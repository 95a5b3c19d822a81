package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/export"
	"github.com/sells-group/po-insight/internal/pipeline"
)

var (
	vendorsInput  string
	vendorsOutput string
	vendorsXLSX   string
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Aggregate per-vendor delay statistics from a raw PO spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := loadTable(vendorsInput)
		if err != nil {
			return err
		}

		stats, err := pipeline.VendorReport(table)
		if err != nil {
			return err
		}

		b, err := export.VendorsCSV(stats)
		if err != nil {
			return err
		}
		if vendorsOutput == "" {
			if _, err := cmd.OutOrStdout().Write(b); err != nil {
				return eris.Wrap(err, "vendors: write stdout")
			}
		} else if err := os.WriteFile(vendorsOutput, b, 0o644); err != nil {
			return eris.Wrap(err, "vendors: write csv")
		}

		if vendorsXLSX != "" {
			wb, err := export.VendorsXLSX(stats)
			if err != nil {
				return err
			}
			if err := os.WriteFile(vendorsXLSX, wb, 0o644); err != nil {
				return eris.Wrap(err, "vendors: write xlsx")
			}
		}

		zap.L().Info("vendor report complete",
			zap.String("input", vendorsInput),
			zap.Int("vendors", len(stats)),
		)
		return nil
	},
}

func init() {
	vendorsCmd.Flags().StringVar(&vendorsInput, "input", "", "path to raw PO .xlsx file (required)")
	vendorsCmd.Flags().StringVar(&vendorsOutput, "output", "", "path for vendor CSV (default stdout)")
	vendorsCmd.Flags().StringVar(&vendorsXLSX, "xlsx", "", "optional path for vendor XLSX workbook")
	_ = vendorsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(vendorsCmd)
}
