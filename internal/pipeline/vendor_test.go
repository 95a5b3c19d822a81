package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/po-insight/internal/po"
)

func vendorTable(rows []po.Record) *po.Table {
	return &po.Table{
		Columns: []string{po.ColPONumber, po.ColVendorName, po.ColDaysToClose},
		Rows:    rows,
	}
}

func vendorRow(n float64, vendor string, daysToClose *float64) po.Record {
	return po.Record{PONumber: n, VendorName: vendor, DaysToClose: daysToClose}
}

func TestVendorReport_RankingScenario(t *testing.T) {
	var rows []po.Record
	// Vendor A: 10 POs, 3 delayed.
	for i := 0; i < 10; i++ {
		days := 10.0
		if i < 3 {
			days = 45.0
		}
		rows = append(rows, vendorRow(float64(100+i), "A", f(days)))
	}
	// Vendor B: 5 POs, 4 delayed.
	for i := 0; i < 5; i++ {
		days := 60.0
		if i == 4 {
			days = 5.0
		}
		rows = append(rows, vendorRow(float64(200+i), "B", f(days)))
	}

	stats, err := VendorReport(vendorTable(rows))
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "B", stats[0].VendorName)
	assert.Equal(t, 80.0, stats[0].DelayRatePct)
	assert.Equal(t, "A", stats[1].VendorName)
	assert.Equal(t, 30.0, stats[1].DelayRatePct)
}

func TestVendorReport_MissingVendorColumn(t *testing.T) {
	table := &po.Table{Columns: []string{po.ColPONumber, po.ColDaysToClose}}

	_, err := VendorReport(table)
	var schemaErr *po.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, po.ColVendorName)
}

func TestVendorReport_MissingDaysToClose(t *testing.T) {
	table := &po.Table{Columns: []string{po.ColPONumber, po.ColVendorName}}

	_, err := VendorReport(table)
	var schemaErr *po.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, po.ColDaysToClose)
}

func TestVendorReport_Bounds(t *testing.T) {
	rows := []po.Record{
		vendorRow(1, "A", f(45)),
		vendorRow(2, "A", f(10)),
		vendorRow(3, "B", f(90)),
		vendorRow(4, "C", nil),
	}

	stats, err := VendorReport(vendorTable(rows))
	require.NoError(t, err)

	for _, s := range stats {
		assert.GreaterOrEqual(t, s.DelayRatePct, 0.0)
		assert.LessOrEqual(t, s.DelayRatePct, 100.0)
		assert.LessOrEqual(t, s.DelayedPOs, s.TotalPOs)
	}
}

func TestVendorReport_SortedNonIncreasing(t *testing.T) {
	rows := []po.Record{
		vendorRow(1, "A", f(10)),
		vendorRow(2, "B", f(45)),
		vendorRow(3, "C", f(45)),
		vendorRow(4, "C", f(10)),
	}

	stats, err := VendorReport(vendorTable(rows))
	require.NoError(t, err)

	for i := 1; i < len(stats); i++ {
		assert.GreaterOrEqual(t, stats[i-1].DelayRatePct, stats[i].DelayRatePct)
	}
}

func TestVendorReport_BoundaryDayIsOnTime(t *testing.T) {
	rows := []po.Record{
		vendorRow(1, "A", f(30)), // exactly 30 is not delayed
		vendorRow(2, "A", f(31)),
	}

	stats, err := VendorReport(vendorTable(rows))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].DelayedPOs)
	assert.Equal(t, 50.0, stats[0].DelayRatePct)
}

func TestVendorReport_MeanIgnoresNulls(t *testing.T) {
	rows := []po.Record{
		vendorRow(1, "A", f(10)),
		vendorRow(2, "A", nil),
		vendorRow(3, "A", f(20)),
	}

	stats, err := VendorReport(vendorTable(rows))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].TotalPOs)
	assert.InDelta(t, 15.0, stats[0].AvgDaysToClose, 1e-9)
}
