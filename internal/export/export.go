// Package export renders prediction and vendor tables as CSV and XLSX
// buffers for download or attachment.
package export

import (
	"strconv"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/po-insight/internal/po"
)

const dateFormat = "2006-01-02"

// predictionRow is the flat CSV/XLSX shape of a scored record. Nullable
// fields render as empty cells.
type predictionRow struct {
	PONumber         float64  `csv:"po_number"`
	VendorName       string   `csv:"vendor_name"`
	PODate           string   `csv:"po_date"`
	DateLastChanged  string   `csv:"date_last_changed"`
	DatePassedAcctg  string   `csv:"date_passed_to_acctg"`
	PaymentDate      string   `csv:"payment_date"`
	ReceiverDate     string   `csv:"receiver_date"`
	DaysAging        *float64 `csv:"days_aging"`
	DaysToClose      *float64 `csv:"days_to_close"`
	CostAmount       *float64 `csv:"cost_amount"`
	OrderQty         *float64 `csv:"order_qty"`
	POType           string   `csv:"po_type"`
	POStatusDesc     string   `csv:"po_status_desc"`
	POAgent          string   `csv:"po_agent"`
	FacilityDesc     string   `csv:"facility_description"`
	Warehouse        string   `csv:"warehouse"`
	DelayProbability float64  `csv:"delay_probability"`
	Status           string   `csv:"delay_status"`
}

func flattenRow(r po.PredictionRow) predictionRow {
	return predictionRow{
		PONumber:         r.PONumber,
		VendorName:       r.VendorName,
		PODate:           formatDate(r.PODate),
		DateLastChanged:  formatDate(r.DateLastChanged),
		DatePassedAcctg:  formatDate(r.DatePassedAcctg),
		PaymentDate:      formatDate(r.PaymentDate),
		ReceiverDate:     formatDate(r.ReceiverDate),
		DaysAging:        r.DaysAging,
		DaysToClose:      r.DaysToClose,
		CostAmount:       r.CostAmount,
		OrderQty:         r.OrderQty,
		POType:           r.POType,
		POStatusDesc:     r.POStatusDesc,
		POAgent:          r.POAgent,
		FacilityDesc:     r.FacilityDesc,
		Warehouse:        r.Warehouse,
		DelayProbability: r.DelayProbability,
		Status:           r.Status,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

// PredictionsCSV renders scored rows as CSV.
func PredictionsCSV(rows []po.PredictionRow) ([]byte, error) {
	flat := make([]predictionRow, len(rows))
	for i, r := range rows {
		flat[i] = flattenRow(r)
	}
	b, err := csvutil.Marshal(flat)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal predictions csv")
	}
	return b, nil
}

// VendorsCSV renders the vendor summary as CSV, preserving its ordering.
func VendorsCSV(stats []po.VendorStats) ([]byte, error) {
	b, err := csvutil.Marshal(stats)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal vendors csv")
	}
	return b, nil
}

// PredictionsXLSX renders scored rows as an in-memory workbook.
func PredictionsXLSX(rows []po.PredictionRow) ([]byte, error) {
	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, predictionHeaders())
	for _, r := range rows {
		grid = append(grid, predictionCells(flattenRow(r)))
	}
	return writeSheet("Predictions", grid)
}

// VendorsXLSX renders the vendor summary as an in-memory workbook.
func VendorsXLSX(stats []po.VendorStats) ([]byte, error) {
	grid := [][]string{{"vendor_name", "total_pos", "avg_days_to_close", "delayed_pos", "delay_rate_pct"}}
	for _, s := range stats {
		grid = append(grid, []string{
			s.VendorName,
			strconv.Itoa(s.TotalPOs),
			formatFloat(s.AvgDaysToClose),
			strconv.Itoa(s.DelayedPOs),
			formatFloat(s.DelayRatePct),
		})
	}
	return writeSheet("Vendors", grid)
}

func predictionHeaders() []string {
	return []string{
		"po_number", "vendor_name", "po_date", "date_last_changed",
		"date_passed_to_acctg", "payment_date", "receiver_date", "days_aging",
		"days_to_close", "cost_amount", "order_qty", "po_type",
		"po_status_desc", "po_agent", "facility_description", "warehouse",
		"delay_probability", "delay_status",
	}
}

func predictionCells(r predictionRow) []string {
	return []string{
		formatFloat(r.PONumber),
		r.VendorName,
		r.PODate,
		r.DateLastChanged,
		r.DatePassedAcctg,
		r.PaymentDate,
		r.ReceiverDate,
		formatFloatPtr(r.DaysAging),
		formatFloatPtr(r.DaysToClose),
		formatFloatPtr(r.CostAmount),
		formatFloatPtr(r.OrderQty),
		r.POType,
		r.POStatusDesc,
		r.POAgent,
		r.FacilityDesc,
		r.Warehouse,
		formatFloat(r.DelayProbability),
		r.Status,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
