package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/po-insight/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Model:   config.ModelConfig{Path: filepath.Join(dir, "model.json")},
		Predict: config.PredictConfig{Threshold: 0.7},
		Train:   config.TrainConfig{Holdout: 0.2, Seed: 42, Trees: 10, MaxDepth: 5},
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(dir, "uploads.db"),
		},
		Server: config.ServerConfig{Port: 0, RatePerSecond: 100, RateBurst: 100},
	}
}

// sampleWorkbook builds an upload where RUSH POs close late and STANDARD POs
// close fast.
func sampleWorkbook(t *testing.T, n int) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("POs")
	require.NoError(t, err)

	headers := []string{
		"PO #", "Vendor", "Days Aging", "Days To Close", "Cost Amount",
		"Order Qty", "PO Type", "PO Status Desc", "PO Agent",
		"Facility Description", "Warehouse",
	}
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}

	for i := 0; i < n; i++ {
		poType, aging, toClose := "STANDARD", "5", "10"
		if i%2 == 0 {
			poType, aging, toClose = "RUSH", "60", "75"
		}
		cells := []string{
			fmt.Sprintf("%d", 1000+i),
			fmt.Sprintf("Vendor %d", i%3),
			aging, toClose, "250", "2", poType, "OPEN", "Agent A", "Main", "WH1",
		}
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, workbook []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "pos.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(workbook)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	router := newRouter(testConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_ScoreWithoutModel(t *testing.T) {
	router := newRouter(testConfig(t))

	body, contentType := multipartUpload(t, sampleWorkbook(t, 10), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "train first")
}

func TestServer_TrainThenScore(t *testing.T) {
	cfg := testConfig(t)
	router := newRouter(cfg)
	workbook := sampleWorkbook(t, 80)

	body, contentType := multipartUpload(t, workbook, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/train", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body, contentType = multipartUpload(t, workbook, map[string]string{
		"threshold": "0.5",
		"actor":     "blake@example.com",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/score", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp scoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.5, resp.Threshold)
	assert.Equal(t, 80, resp.RowCount)
	assert.Greater(t, resp.AlertCount, 0)
	assert.NotEmpty(t, resp.Vendors)
}

func TestServer_ScoreRejectsBadThreshold(t *testing.T) {
	router := newRouter(testConfig(t))

	body, contentType := multipartUpload(t, sampleWorkbook(t, 4), map[string]string{"threshold": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ScoreRejectsNonWorkbook(t *testing.T) {
	router := newRouter(testConfig(t))

	body, contentType := multipartUpload(t, []byte("plain text"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unreadable upload")
}

func TestServer_MissingFileField(t *testing.T) {
	router := newRouter(testConfig(t))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("threshold", "0.5"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RatePerSecond = 0.001
	cfg.Server.RateBurst = 1
	router := newRouter(cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
