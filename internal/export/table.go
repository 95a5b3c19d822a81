package export

import (
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/po-insight/internal/po"
)

// canonicalRow is the flat CSV shape of an unscored canonical record.
type canonicalRow struct {
	PONumber        float64  `csv:"po_number"`
	VendorName      string   `csv:"vendor_name"`
	PODate          string   `csv:"po_date"`
	DateLastChanged string   `csv:"date_last_changed"`
	DatePassedAcctg string   `csv:"date_passed_to_acctg"`
	PaymentDate     string   `csv:"payment_date"`
	ReceiverDate    string   `csv:"receiver_date"`
	DaysAging       *float64 `csv:"days_aging"`
	DaysToClose     *float64 `csv:"days_to_close"`
	CostAmount      *float64 `csv:"cost_amount"`
	OrderQty        *float64 `csv:"order_qty"`
	POType          string   `csv:"po_type"`
	POStatusDesc    string   `csv:"po_status_desc"`
	POAgent         string   `csv:"po_agent"`
	FacilityDesc    string   `csv:"facility_description"`
	Warehouse       string   `csv:"warehouse"`
}

// TableCSV renders a canonical table as CSV.
func TableCSV(table *po.Table) ([]byte, error) {
	flat := make([]canonicalRow, len(table.Rows))
	for i, rec := range table.Rows {
		flat[i] = canonicalRow{
			PONumber:        rec.PONumber,
			VendorName:      rec.VendorName,
			PODate:          formatDate(rec.PODate),
			DateLastChanged: formatDate(rec.DateLastChanged),
			DatePassedAcctg: formatDate(rec.DatePassedAcctg),
			PaymentDate:     formatDate(rec.PaymentDate),
			ReceiverDate:    formatDate(rec.ReceiverDate),
			DaysAging:       rec.DaysAging,
			DaysToClose:     rec.DaysToClose,
			CostAmount:      rec.CostAmount,
			OrderQty:        rec.OrderQty,
			POType:          rec.POType,
			POStatusDesc:    rec.POStatusDesc,
			POAgent:         rec.POAgent,
			FacilityDesc:    rec.FacilityDesc,
			Warehouse:       rec.Warehouse,
		}
	}
	b, err := csvutil.Marshal(flat)
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal canonical csv")
	}
	return b, nil
}
