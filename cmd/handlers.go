package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/config"
	"github.com/sells-group/po-insight/internal/ingest"
	"github.com/sells-group/po-insight/internal/pipeline"
	"github.com/sells-group/po-insight/internal/po"
	"github.com/sells-group/po-insight/internal/store"
)

const maxUploadBytes = 32 << 20

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// scoreResponse is the JSON body returned by POST /api/v1/score.
type scoreResponse struct {
	Threshold  float64             `json:"threshold"`
	RowCount   int                 `json:"row_count"`
	AlertCount int                 `json:"alert_count"`
	Rows       []scoredRow         `json:"rows"`
	Vendors    []po.VendorStats    `json:"vendors,omitempty"`
}

type scoredRow struct {
	PONumber         float64 `json:"po_number"`
	VendorName       string  `json:"vendor_name"`
	DelayProbability float64 `json:"delay_probability"`
	Status           string  `json:"delay_status"`
}

func handleScore(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, filename, ok := uploadedTable(w, r)
		if !ok {
			return
		}

		threshold := cfg.Predict.Threshold
		if v := r.FormValue("threshold"); v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil || t <= 0 || t > 1 {
				writeError(w, http.StatusBadRequest, "threshold must be a number in (0, 1]")
				return
			}
			threshold = t
		}

		pred, err := pipeline.Predict(table, pipeline.PredictConfig{
			ModelPath: cfg.Model.Path,
			Threshold: threshold,
		})
		if err != nil {
			writePipelineError(w, err)
			return
		}

		resp := scoreResponse{
			Threshold:  pred.Threshold,
			RowCount:   len(pred.Rows),
			AlertCount: len(pred.Alerts),
		}
		for _, row := range pred.Rows {
			resp.Rows = append(resp.Rows, scoredRow{
				PONumber:         row.PONumber,
				VendorName:       row.VendorName,
				DelayProbability: row.DelayProbability,
				Status:           row.Status,
			})
		}

		// Vendor stats need days_to_close; fresh uploads may not have it.
		if vendors, err := pipeline.VendorReport(table); err == nil {
			resp.Vendors = vendors
		} else {
			zap.L().Debug("score: vendor report skipped", zap.Error(err))
		}

		recordUpload(r.Context(), cfg.Store, store.UploadEntry{
			Actor:      r.FormValue("actor"),
			Filename:   filename,
			RowCount:   len(pred.Rows),
			AlertCount: len(pred.Alerts),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleTrain(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, filename, ok := uploadedTable(w, r)
		if !ok {
			return
		}

		err := pipeline.Train(table, pipeline.TrainConfig{
			ModelPath: cfg.Model.Path,
			Holdout:   cfg.Train.Holdout,
			Seed:      cfg.Train.Seed,
			Trees:     cfg.Train.Trees,
			MaxDepth:  cfg.Train.MaxDepth,
		})
		if err != nil {
			writePipelineError(w, err)
			return
		}

		zap.L().Info("train endpoint: model retrained",
			zap.String("file", filename),
			zap.Int("rows", table.Len()),
		)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "trained",
			"rows":   table.Len(),
		})
	}
}

// uploadedTable reads the multipart "file" field and normalizes it. Writes
// the HTTP error itself and returns ok=false on failure.
func uploadedTable(w http.ResponseWriter, r *http.Request) (*po.Table, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return nil, "", false
	}
	defer file.Close()

	b, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return nil, "", false
	}

	raw, err := ingest.ReadXLSXBytes(b)
	if err != nil {
		writePipelineError(w, err)
		return nil, "", false
	}
	table, err := ingest.Normalize(raw)
	if err != nil {
		writePipelineError(w, err)
		return nil, "", false
	}
	return table, header.Filename, true
}

// writePipelineError maps the core error taxonomy onto HTTP statuses.
func writePipelineError(w http.ResponseWriter, err error) {
	var (
		parseErr    *po.ParseError
		schemaErr   *po.SchemaError
		featureErr  *po.FeatureError
		trainErr    *po.TrainingError
		notFoundErr *po.ModelNotFoundError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &schemaErr),
		errors.As(err, &featureErr),
		errors.As(err, &trainErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
