package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/po-insight/internal/po"
)

// Artifact is the persisted model: the fitted forest plus the exact ordered
// feature vocabulary it was trained on. Overwritten wholesale on retrain.
type Artifact struct {
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	Features  []string  `json:"features"`
	Forest    *Forest   `json:"forest"`
}

var _ Model = (*Artifact)(nil)

// PredictProbability scores rows with the persisted forest.
func (a *Artifact) PredictProbability(x [][]float64) []float64 {
	return a.Forest.PredictProbability(x)
}

// FeatureVocabulary returns the ordered feature names the forest expects.
func (a *Artifact) FeatureVocabulary() []string {
	return a.Features
}

// Save writes the artifact to path, creating parent directories. The write
// goes through a temp file and rename so a reader never sees a torn artifact.
func (a *Artifact) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "ml: create model dir")
	}

	b, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "ml: marshal artifact")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return eris.Wrap(err, "ml: write artifact")
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrap(err, "ml: replace artifact")
	}
	return nil
}

// LoadArtifact reads a persisted model. Returns po.ModelNotFoundError when no
// artifact exists at path.
func LoadArtifact(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &po.ModelNotFoundError{Path: path}
		}
		return nil, eris.Wrap(err, "ml: read artifact")
	}

	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, eris.Wrap(err, "ml: decode artifact")
	}
	if a.Forest == nil || len(a.Features) == 0 {
		return nil, eris.Errorf("ml: artifact at %s has no model", path)
	}
	return &a, nil
}
