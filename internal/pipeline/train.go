// Package pipeline wires the canonical PO table through training, scoring,
// and vendor aggregation.
package pipeline

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/feature"
	"github.com/sells-group/po-insight/internal/ml"
	"github.com/sells-group/po-insight/internal/po"
)

// TrainConfig controls a training run. Zero values fall back to the defaults
// used in production: 20% holdout, seed 42, 100 trees of depth 8.
type TrainConfig struct {
	ModelPath string
	Holdout   float64
	Seed      int64
	Trees     int
	MaxDepth  int
}

func (c TrainConfig) withDefaults() TrainConfig {
	def := ml.DefaultForestConfig()
	if c.Holdout <= 0 || c.Holdout >= 1 {
		c.Holdout = 0.2
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	if c.Trees <= 0 {
		c.Trees = def.Trees
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	return c
}

// Train fits a delay classifier on the canonical table and persists the
// artifact (model + feature vocabulary) to cfg.ModelPath, replacing any prior
// artifact. Holdout metrics are logged, not returned.
func Train(table *po.Table, cfg TrainConfig) error {
	cfg = cfg.withDefaults()

	if !table.Has(po.ColDaysToClose) {
		return &po.TrainingError{Reason: "missing days_to_close"}
	}

	// Rows without a computable target are excluded rather than assumed on
	// time.
	labeled := &po.Table{Columns: table.Columns}
	var y []int
	for _, rec := range table.Rows {
		if rec.DaysToClose == nil {
			continue
		}
		labeled.Rows = append(labeled.Rows, rec)
		if rec.IsDelayed() {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	if len(labeled.Rows) == 0 {
		return &po.TrainingError{Reason: "missing days_to_close"}
	}
	if skipped := len(table.Rows) - len(labeled.Rows); skipped > 0 {
		zap.L().Warn("train: rows without days_to_close excluded",
			zap.Int("skipped", skipped),
		)
	}

	matrix, err := feature.Encode(labeled)
	if err != nil {
		return err
	}

	trainIdx, testIdx := ml.StratifiedSplit(y, cfg.Holdout, cfg.Seed)
	trainX, trainY := ml.Subset(matrix.Rows, y, trainIdx)
	testX, testY := ml.Subset(matrix.Rows, y, testIdx)

	forest := ml.NewForest(ml.ForestConfig{Trees: cfg.Trees, MaxDepth: cfg.MaxDepth, Seed: cfg.Seed})
	if err := forest.Fit(trainX, trainY); err != nil {
		return eris.Wrap(err, "train: fit forest")
	}

	if len(testX) > 0 {
		m := ml.Evaluate(forest.PredictProbability(testX), testY)
		zap.L().Info("train: holdout evaluation",
			zap.Float64("precision", m.Precision),
			zap.Float64("recall", m.Recall),
			zap.Float64("f1", m.F1),
			zap.Float64("accuracy", m.Accuracy),
			zap.Int("holdout_rows", m.Holdout),
		)
	}

	artifact := &ml.Artifact{
		Version:   1,
		TrainedAt: time.Now().UTC(),
		Features:  matrix.Names,
		Forest:    forest,
	}
	if err := artifact.Save(cfg.ModelPath); err != nil {
		return err
	}

	zap.L().Info("train: model saved",
		zap.String("path", cfg.ModelPath),
		zap.Int("rows", len(labeled.Rows)),
		zap.Int("features", len(matrix.Names)),
	)
	return nil
}
