package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/pipeline"
)

var (
	trainInput     string
	trainModelPath string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the delay classifier from a raw PO spreadsheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := loadTable(trainInput)
		if err != nil {
			return err
		}

		modelPath := trainModelPath
		if modelPath == "" {
			modelPath = cfg.Model.Path
		}

		err = pipeline.Train(table, pipeline.TrainConfig{
			ModelPath: modelPath,
			Holdout:   cfg.Train.Holdout,
			Seed:      cfg.Train.Seed,
			Trees:     cfg.Train.Trees,
			MaxDepth:  cfg.Train.MaxDepth,
		})
		if err != nil {
			return err
		}

		zap.L().Info("train complete",
			zap.String("input", trainInput),
			zap.String("model", modelPath),
			zap.Int("rows", table.Len()),
		)
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainInput, "input", "", "path to raw PO .xlsx file (required)")
	trainCmd.Flags().StringVar(&trainModelPath, "model", "", "model artifact path (default from config)")
	_ = trainCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(trainCmd)
}
