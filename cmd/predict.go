package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/alert"
	"github.com/sells-group/po-insight/internal/export"
	"github.com/sells-group/po-insight/internal/pipeline"
	"github.com/sells-group/po-insight/internal/store"
)

var (
	predictInput     string
	predictThreshold float64
	predictOutput    string
	predictXLSX      string
	predictActor     string
	predictNoLog     bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a raw PO spreadsheet against the trained model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, err := loadTable(predictInput)
		if err != nil {
			return err
		}

		threshold := predictThreshold
		if threshold <= 0 {
			threshold = cfg.Predict.Threshold
		}

		pred, err := pipeline.Predict(table, pipeline.PredictConfig{
			ModelPath: cfg.Model.Path,
			Threshold: threshold,
		})
		if err != nil {
			return err
		}

		b, err := export.PredictionsCSV(pred.Rows)
		if err != nil {
			return err
		}
		if predictOutput == "" {
			if _, err := cmd.OutOrStdout().Write(b); err != nil {
				return eris.Wrap(err, "predict: write stdout")
			}
		} else if err := os.WriteFile(predictOutput, b, 0o644); err != nil {
			return eris.Wrap(err, "predict: write csv")
		}

		if predictXLSX != "" {
			wb, err := export.PredictionsXLSX(pred.Rows)
			if err != nil {
				return err
			}
			if err := os.WriteFile(predictXLSX, wb, 0o644); err != nil {
				return eris.Wrap(err, "predict: write xlsx")
			}
		}

		if a, err := alert.Build(filepath.Base(predictInput), threshold, pred.Alerts); err != nil {
			zap.L().Warn("alert build failed", zap.Error(err))
		} else if a != nil {
			if err := (alert.LogNotifier{}).Send(ctx, *a); err != nil {
				zap.L().Warn("alert notify failed", zap.Error(err))
			}
		}

		if !predictNoLog {
			recordUpload(ctx, cfg.Store, store.UploadEntry{
				Actor:      predictActor,
				Filename:   filepath.Base(predictInput),
				RowCount:   len(pred.Rows),
				AlertCount: len(pred.Alerts),
			})
		}

		zap.L().Info("predict complete",
			zap.String("input", predictInput),
			zap.Int("rows", len(pred.Rows)),
			zap.Int("alerts", len(pred.Alerts)),
			zap.Float64("threshold", threshold),
		)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictInput, "input", "", "path to raw PO .xlsx file (required)")
	predictCmd.Flags().Float64Var(&predictThreshold, "threshold", 0, "delay probability threshold (default from config)")
	predictCmd.Flags().StringVar(&predictOutput, "output", "", "path for prediction CSV (default stdout)")
	predictCmd.Flags().StringVar(&predictXLSX, "xlsx", "", "optional path for prediction XLSX workbook")
	predictCmd.Flags().StringVar(&predictActor, "actor", "", "identity recorded in the upload log")
	predictCmd.Flags().BoolVar(&predictNoLog, "no-log", false, "skip the upload log")
	_ = predictCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(predictCmd)
}
