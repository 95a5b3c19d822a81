// Package po holds the canonical purchase-order data model shared by the
// cleaning, training, prediction, and reporting stages.
package po

import "time"

// Canonical column names. Uploads are reduced to a subset of this allow-list
// during normalization; anything else is dropped.
const (
	ColPONumber        = "po_number"
	ColVendorName      = "vendor_name"
	ColPODate          = "po_date"
	ColDateLastChanged = "date_last_changed"
	ColDatePassedAcctg = "date_passed_to_acctg"
	ColPaymentDate     = "payment_date"
	ColReceiverDate    = "receiver_date"
	ColDaysAging       = "days_aging"
	ColDaysToClose     = "days_to_close"
	ColCostAmount      = "cost_amount"
	ColOrderQty        = "order_qty"
	ColPOType          = "po_type"
	ColPOStatusDesc    = "po_status_desc"
	ColPOAgent         = "po_agent"
	ColFacilityDesc    = "facility_description"
	ColWarehouse       = "warehouse"
)

// AllowedColumns is the canonical allow-list in fixed presentation order.
var AllowedColumns = []string{
	ColPONumber,
	ColVendorName,
	ColPODate,
	ColDateLastChanged,
	ColDatePassedAcctg,
	ColPaymentDate,
	ColReceiverDate,
	ColDaysAging,
	ColDaysToClose,
	ColCostAmount,
	ColOrderQty,
	ColPOType,
	ColPOStatusDesc,
	ColPOAgent,
	ColFacilityDesc,
	ColWarehouse,
}

// DateColumns lists the columns parsed into timestamps during normalization.
var DateColumns = []string{
	ColPODate,
	ColDateLastChanged,
	ColDatePassedAcctg,
	ColPaymentDate,
	ColReceiverDate,
}

// NumericColumns lists the columns coerced to floats during normalization.
var NumericColumns = []string{
	ColPONumber,
	ColDaysAging,
	ColDaysToClose,
	ColCostAmount,
	ColOrderQty,
}

// TextColumns lists the columns normalized to trimmed upper-case text.
var TextColumns = []string{
	ColPOType,
	ColPOStatusDesc,
	ColPOAgent,
	ColVendorName,
	ColFacilityDesc,
	ColWarehouse,
}

// DelayThresholdDays is the business rule for a delayed PO: a PO is delayed
// when days_to_close exceeds this many days. Exactly 30 is on time.
const DelayThresholdDays = 30.0

// Record is one canonical PO row. Required fields (PONumber, VendorName) are
// always set on retained rows; every other field is nullable, with nil
// meaning the value was absent or unparsable in the upload.
type Record struct {
	PONumber   float64
	VendorName string

	PODate           *time.Time
	DateLastChanged  *time.Time
	DatePassedAcctg  *time.Time
	PaymentDate      *time.Time
	ReceiverDate     *time.Time

	DaysAging   *float64
	DaysToClose *float64
	CostAmount  *float64
	OrderQty    *float64

	POType       string
	POStatusDesc string
	POAgent      string
	FacilityDesc string
	Warehouse    string
}

// IsDelayed reports whether the record's days_to_close exceeds the delay
// threshold. A nil days_to_close is never delayed.
func (r Record) IsDelayed() bool {
	return r.DaysToClose != nil && *r.DaysToClose > DelayThresholdDays
}

// Numeric returns the named numeric column value, or nil.
func (r Record) Numeric(col string) *float64 {
	switch col {
	case ColPONumber:
		v := r.PONumber
		return &v
	case ColDaysAging:
		return r.DaysAging
	case ColDaysToClose:
		return r.DaysToClose
	case ColCostAmount:
		return r.CostAmount
	case ColOrderQty:
		return r.OrderQty
	}
	return nil
}

// Date returns the named date column value, or nil.
func (r Record) Date(col string) *time.Time {
	switch col {
	case ColPODate:
		return r.PODate
	case ColDateLastChanged:
		return r.DateLastChanged
	case ColDatePassedAcctg:
		return r.DatePassedAcctg
	case ColPaymentDate:
		return r.PaymentDate
	case ColReceiverDate:
		return r.ReceiverDate
	}
	return nil
}

// Text returns the named text column value, or "".
func (r Record) Text(col string) string {
	switch col {
	case ColVendorName:
		return r.VendorName
	case ColPOType:
		return r.POType
	case ColPOStatusDesc:
		return r.POStatusDesc
	case ColPOAgent:
		return r.POAgent
	case ColFacilityDesc:
		return r.FacilityDesc
	case ColWarehouse:
		return r.Warehouse
	}
	return ""
}
