package pipeline

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/po"
)

// VendorReport aggregates per-vendor delay statistics from the canonical
// table: PO count, null-ignoring mean days_to_close, delayed count, and delay
// rate percent, sorted descending by rate (stable, so ties keep first-seen
// vendor order). Both vendor_name and days_to_close must be present — a
// silently zero-filled delay rate would be worse than failing.
func VendorReport(table *po.Table) ([]po.VendorStats, error) {
	required := []string{po.ColVendorName, po.ColDaysToClose}
	if missing := table.Missing(required); len(missing) > 0 {
		return nil, &po.SchemaError{Missing: missing}
	}

	type acc struct {
		total   int
		delayed int
		sum     float64
		sumN    int
	}
	byVendor := map[string]*acc{}
	var order []string

	for _, rec := range table.Rows {
		a, ok := byVendor[rec.VendorName]
		if !ok {
			a = &acc{}
			byVendor[rec.VendorName] = a
			order = append(order, rec.VendorName)
		}
		a.total++
		if rec.DaysToClose != nil {
			a.sum += *rec.DaysToClose
			a.sumN++
		}
		if rec.IsDelayed() {
			a.delayed++
		}
	}

	stats := make([]po.VendorStats, 0, len(order))
	for _, vendor := range order {
		a := byVendor[vendor]
		s := po.VendorStats{
			VendorName: vendor,
			TotalPOs:   a.total,
			DelayedPOs: a.delayed,
		}
		if a.sumN > 0 {
			s.AvgDaysToClose = a.sum / float64(a.sumN)
		}
		s.DelayRatePct = round2(float64(a.delayed) / float64(a.total) * 100)
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].DelayRatePct > stats[j].DelayRatePct
	})

	zap.L().Info("vendors: report generated", zap.Int("vendors", len(stats)))
	return stats, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
