package po

// Status labels for scored rows.
const (
	StatusDelayed = "DELAYED"
	StatusOnTime  = "ON TIME"
)

// PredictionRow is a canonical record plus its model score and label.
type PredictionRow struct {
	Record
	DelayProbability float64
	Status           string
}

// Prediction is the full scored table plus the alert view. Alerts holds the
// rows labeled DELAYED; the label is the single source of truth, there is no
// second probability filter.
type Prediction struct {
	Columns   []string
	Threshold float64
	Rows      []PredictionRow
	Alerts    []PredictionRow
}

// VendorStats is one row of the vendor summary: delay statistics for a single
// normalized vendor name.
type VendorStats struct {
	VendorName     string  `csv:"vendor_name" json:"vendor_name"`
	TotalPOs       int     `csv:"total_pos" json:"total_pos"`
	AvgDaysToClose float64 `csv:"avg_days_to_close" json:"avg_days_to_close"`
	DelayedPOs     int     `csv:"delayed_pos" json:"delayed_pos"`
	DelayRatePct   float64 `csv:"delay_rate_pct" json:"delay_rate_pct"`
}
