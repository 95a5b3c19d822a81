package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/po-insight/internal/po"
)

func TestPredict_NoModel(t *testing.T) {
	table := syntheticTable(10)

	_, err := Predict(table, PredictConfig{ModelPath: filepath.Join(t.TempDir(), "model.json")})
	var notFound *po.ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPredict_MissingFeatures(t *testing.T) {
	path := modelPath(t)
	require.NoError(t, Train(syntheticTable(100), TrainConfig{ModelPath: path, Trees: 5}))

	table := syntheticTable(10)
	table.Columns = []string{po.ColPONumber, po.ColVendorName, po.ColDaysToClose}

	_, err := Predict(table, PredictConfig{ModelPath: path})
	var featureErr *po.FeatureError
	require.ErrorAs(t, err, &featureErr)
}

func TestPredict_ThresholdMonotonicity(t *testing.T) {
	path := modelPath(t)
	table := syntheticTable(200)
	require.NoError(t, Train(table, TrainConfig{ModelPath: path, Trees: 20}))

	prev := -1
	for _, threshold := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		pred, err := Predict(table, PredictConfig{ModelPath: path, Threshold: threshold})
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, len(pred.Alerts), prev,
				"raising the threshold must never grow the alert set")
		}
		prev = len(pred.Alerts)
	}
}

func TestPredict_AlertsMatchLabels(t *testing.T) {
	path := modelPath(t)
	table := syntheticTable(120)
	require.NoError(t, Train(table, TrainConfig{ModelPath: path, Trees: 10}))

	pred, err := Predict(table, PredictConfig{ModelPath: path, Threshold: 0.5})
	require.NoError(t, err)

	delayed := 0
	for _, row := range pred.Rows {
		if row.Status == po.StatusDelayed {
			delayed++
			assert.GreaterOrEqual(t, row.DelayProbability, 0.5)
		}
	}
	assert.Len(t, pred.Alerts, delayed)
	for _, row := range pred.Alerts {
		assert.Equal(t, po.StatusDelayed, row.Status)
	}
}

func TestPredict_UnseenCategoricalValues(t *testing.T) {
	path := modelPath(t)
	require.NoError(t, Train(syntheticTable(100), TrainConfig{ModelPath: path, Trees: 10}))

	// A fresh upload with vendor/warehouse/type values training never saw.
	fresh := syntheticTable(10)
	for i := range fresh.Rows {
		fresh.Rows[i].POType = "BLANKET"
		fresh.Rows[i].Warehouse = "WH-NEW"
	}

	pred, err := Predict(fresh, PredictConfig{ModelPath: path})
	require.NoError(t, err)
	assert.Len(t, pred.Rows, 10)
}

func TestPredict_DefaultThreshold(t *testing.T) {
	path := modelPath(t)
	table := syntheticTable(60)
	require.NoError(t, Train(table, TrainConfig{ModelPath: path, Trees: 5}))

	pred, err := Predict(table, PredictConfig{ModelPath: path})
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, pred.Threshold)
}
