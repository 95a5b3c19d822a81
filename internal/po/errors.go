package po

import (
	"fmt"
	"strings"
)

// ParseError means the uploaded file could not be read as a spreadsheet.
// Fatal: no partial table is ever returned alongside it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unreadable upload: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means a required column is absent after normalization.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column(s) missing: %s", strings.Join(e.Missing, ", "))
}

// FeatureError means a whitelisted model feature column is absent at train or
// predict time. Missing features are never silently substituted.
type FeatureError struct {
	Missing []string
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature column(s) missing: %s", strings.Join(e.Missing, ", "))
}

// TrainingError means a training precondition was not met.
type TrainingError struct {
	Reason string
}

func (e *TrainingError) Error() string {
	return "training: " + e.Reason
}

// ModelNotFoundError means no persisted model artifact exists at the expected
// path. The caller must train before predicting.
type ModelNotFoundError struct {
	Path string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("no trained model at %s: run train first", e.Path)
}
