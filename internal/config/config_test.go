package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "models/model.json", cfg.Model.Path)
	assert.Equal(t, 0.7, cfg.Predict.Threshold)
	assert.Equal(t, 0.2, cfg.Train.Holdout)
	assert.Equal(t, int64(42), cfg.Train.Seed)
	assert.Equal(t, 100, cfg.Train.Trees)
	assert.Equal(t, 8, cfg.Train.MaxDepth)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POINSIGHT_PREDICT_THRESHOLD", "0.9")
	t.Setenv("POINSIGHT_MODEL_PATH", "/tmp/custom.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Predict.Threshold)
	assert.Equal(t, "/tmp/custom.json", cfg.Model.Path)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
