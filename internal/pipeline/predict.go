package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/feature"
	"github.com/sells-group/po-insight/internal/ml"
	"github.com/sells-group/po-insight/internal/po"
)

// DefaultThreshold is the delay-probability cutoff used when the caller does
// not supply one.
const DefaultThreshold = 0.7

// PredictConfig controls a scoring run.
type PredictConfig struct {
	ModelPath string
	Threshold float64
}

// Predict scores the canonical table against the persisted model and labels
// each row DELAYED when its probability reaches the threshold. The alert view
// is exactly the DELAYED-labeled rows. The artifact is loaded read-only.
func Predict(table *po.Table, cfg PredictConfig) (*po.Prediction, error) {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	artifact, err := ml.LoadArtifact(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	matrix, err := feature.Encode(table)
	if err != nil {
		return nil, err
	}
	aligned := feature.Align(matrix, artifact.FeatureVocabulary())

	probs := artifact.PredictProbability(aligned.Rows)

	pred := &po.Prediction{
		Columns:   table.Columns,
		Threshold: threshold,
		Rows:      make([]po.PredictionRow, len(table.Rows)),
	}
	for i, rec := range table.Rows {
		row := po.PredictionRow{
			Record:           rec,
			DelayProbability: probs[i],
			Status:           po.StatusOnTime,
		}
		if probs[i] >= threshold {
			row.Status = po.StatusDelayed
		}
		pred.Rows[i] = row
		if row.Status == po.StatusDelayed {
			pred.Alerts = append(pred.Alerts, row)
		}
	}

	zap.L().Info("predict: scored upload",
		zap.Int("rows", len(pred.Rows)),
		zap.Int("alerts", len(pred.Alerts)),
		zap.Float64("threshold", threshold),
	)
	return pred, nil
}
