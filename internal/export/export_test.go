package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/po-insight/internal/po"
)

func f(v float64) *float64 { return &v }

func sampleRows() []po.PredictionRow {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return []po.PredictionRow{
		{
			Record: po.Record{
				PONumber:    101,
				VendorName:  "ACME CO",
				PODate:      &date,
				DaysToClose: f(45),
				POType:      "RUSH",
			},
			DelayProbability: 0.91,
			Status:           po.StatusDelayed,
		},
		{
			Record: po.Record{
				PONumber:   102,
				VendorName: "BETA LLC",
			},
			DelayProbability: 0.12,
			Status:           po.StatusOnTime,
		},
	}
}

func TestPredictionsCSV(t *testing.T) {
	b, err := PredictionsCSV(sampleRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "po_number,vendor_name,"))
	assert.Contains(t, lines[0], "delay_probability")
	assert.Contains(t, lines[1], "ACME CO")
	assert.Contains(t, lines[1], "2024-01-05")
	assert.Contains(t, lines[1], "DELAYED")
	assert.Contains(t, lines[2], "ON TIME")
}

func TestPredictionsCSV_NullsRenderEmpty(t *testing.T) {
	b, err := PredictionsCSV(sampleRows())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// Second record has no dates and no numerics beyond po_number.
	assert.Contains(t, lines[2], ",,,")
}

func TestVendorsCSV(t *testing.T) {
	stats := []po.VendorStats{
		{VendorName: "B", TotalPOs: 5, AvgDaysToClose: 50, DelayedPOs: 4, DelayRatePct: 80},
		{VendorName: "A", TotalPOs: 10, AvgDaysToClose: 20.5, DelayedPOs: 3, DelayRatePct: 30},
	}

	b, err := VendorsCSV(stats)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "vendor_name,total_pos,avg_days_to_close,delayed_pos,delay_rate_pct", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "B,"), "ordering must be preserved")
}

func TestPredictionsXLSX_Roundtrip(t *testing.T) {
	b, err := PredictionsXLSX(sampleRows())
	require.NoError(t, err)

	wb, err := xlsx.OpenBinary(b)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	sheet := wb.Sheets[0]
	assert.Equal(t, "Predictions", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "po_number", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "ACME CO", sheet.Rows[1].Cells[1].String())
}

func TestVendorsXLSX_Roundtrip(t *testing.T) {
	stats := []po.VendorStats{
		{VendorName: "ACME CO", TotalPOs: 3, AvgDaysToClose: 12.5, DelayedPOs: 1, DelayRatePct: 33.33},
	}

	b, err := VendorsXLSX(stats)
	require.NoError(t, err)

	wb, err := xlsx.OpenBinary(b)
	require.NoError(t, err)
	sheet := wb.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ACME CO", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "33.33", sheet.Rows[1].Cells[4].String())
}
