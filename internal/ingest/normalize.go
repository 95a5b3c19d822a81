package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/po"
)

var nonWordRun = regexp.MustCompile(`[^\w]+`)

// headerAliases maps normalized header variants seen in real PO exports onto
// canonical column names. Applied after mechanical normalization, so keys are
// already trimmed/lowered/underscored.
var headerAliases = map[string]string{
	"po":                    po.ColPONumber,
	"po_no":                 po.ColPONumber,
	"po_num":                po.ColPONumber,
	"purchase_order":        po.ColPONumber,
	"purchase_order_number": po.ColPONumber,
	"vendor":                po.ColVendorName,
	"supplier":              po.ColVendorName,
	"supplier_name":         po.ColVendorName,
	"agent":                 po.ColPOAgent,
	"buyer":                 po.ColPOAgent,
	"facility":              po.ColFacilityDesc,
	"status":                po.ColPOStatusDesc,
	"po_status":             po.ColPOStatusDesc,
	"qty":                   po.ColOrderQty,
	"quantity":              po.ColOrderQty,
	"cost":                  po.ColCostAmount,
	"amount":                po.ColCostAmount,
}

// requiredColumns must survive normalization or the whole upload is rejected.
var requiredColumns = []string{po.ColPONumber, po.ColVendorName}

// NormalizeHeader reduces a free-form header to its canonical form: trim,
// lower-case, collapse runs of non-word characters to a single underscore,
// strip leading/trailing underscores, then resolve known aliases.
// "PO #" -> "po_number", "Days To Close" -> "days_to_close".
func NormalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	s = nonWordRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if canonical, ok := headerAliases[s]; ok {
		return canonical
	}
	return s
}

// Normalize runs the full cleaning pipeline on a parsed upload and returns the
// canonical table. Row-level parse failures degrade to nulls; only a missing
// required column (po.SchemaError) is fatal.
func Normalize(raw *RawTable) (*po.Table, error) {
	headers, rows := dropEmpty(raw.Headers, raw.Rows)

	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = NormalizeHeader(h)
	}
	names = dedupeNames(names)

	// Allow-list filter: canonical column -> source cell index, first
	// occurrence wins, upload order preserved.
	colIndex := make(map[string]int, len(names))
	var columns []string
	for i, n := range names {
		if !isAllowed(n) {
			continue
		}
		if _, seen := colIndex[n]; seen {
			continue
		}
		colIndex[n] = i
		columns = append(columns, n)
	}

	var missing []string
	for _, req := range requiredColumns {
		if _, ok := colIndex[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &po.SchemaError{Missing: missing}
	}

	deriveClose := false
	if _, ok := colIndex[po.ColDaysToClose]; !ok {
		// Derivable when we have a PO date and a close-side date.
		_, hasPODate := colIndex[po.ColPODate]
		_, hasPayment := colIndex[po.ColPaymentDate]
		_, hasChanged := colIndex[po.ColDateLastChanged]
		if hasPODate && (hasPayment || hasChanged) {
			deriveClose = true
			columns = append(columns, po.ColDaysToClose)
		}
	}

	table := &po.Table{Columns: columns}
	dropped := 0
	for _, cells := range rows {
		rec, ok := buildRecord(cells, colIndex, deriveClose)
		if !ok {
			dropped++
			continue
		}
		table.Rows = append(table.Rows, rec)
	}

	zap.L().Info("ingest: normalized upload",
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("dropped_rows", dropped),
		zap.Bool("derived_days_to_close", deriveClose),
	)
	return table, nil
}

// buildRecord converts one raw row into a canonical record. Returns ok=false
// when a required field is null, which drops the row.
func buildRecord(cells []string, colIndex map[string]int, deriveClose bool) (po.Record, bool) {
	cell := func(col string) (string, bool) {
		i, ok := colIndex[col]
		if !ok || i >= len(cells) {
			return "", false
		}
		return cells[i], true
	}

	var rec po.Record

	if raw, ok := cell(po.ColPONumber); ok {
		n := parseNumber(raw)
		if n == nil {
			return rec, false
		}
		rec.PONumber = *n
	} else {
		return rec, false
	}

	if raw, ok := cell(po.ColVendorName); ok {
		rec.VendorName = normalizeText(raw)
	}
	if rec.VendorName == "" {
		return rec, false
	}

	rec.PODate = parseDateCell(cell, po.ColPODate)
	rec.DateLastChanged = parseDateCell(cell, po.ColDateLastChanged)
	rec.DatePassedAcctg = parseDateCell(cell, po.ColDatePassedAcctg)
	rec.PaymentDate = parseDateCell(cell, po.ColPaymentDate)
	rec.ReceiverDate = parseDateCell(cell, po.ColReceiverDate)

	rec.DaysAging = parseNumberCell(cell, po.ColDaysAging)
	rec.DaysToClose = parseNumberCell(cell, po.ColDaysToClose)
	rec.CostAmount = parseNumberCell(cell, po.ColCostAmount)
	rec.OrderQty = parseNumberCell(cell, po.ColOrderQty)

	if deriveClose && rec.DaysToClose == nil {
		rec.DaysToClose = deriveDaysToClose(rec)
	}

	rec.POType = textCell(cell, po.ColPOType)
	rec.POStatusDesc = textCell(cell, po.ColPOStatusDesc)
	rec.POAgent = textCell(cell, po.ColPOAgent)
	rec.FacilityDesc = textCell(cell, po.ColFacilityDesc)
	rec.Warehouse = textCell(cell, po.ColWarehouse)

	return rec, true
}

// deriveDaysToClose computes the day difference between the payment date
// (fallback: last-changed date) and the PO date.
func deriveDaysToClose(rec po.Record) *float64 {
	if rec.PODate == nil {
		return nil
	}
	end := rec.PaymentDate
	if end == nil {
		end = rec.DateLastChanged
	}
	if end == nil {
		return nil
	}
	days := end.Sub(*rec.PODate).Hours() / 24
	return &days
}

// dropEmpty removes rows and columns whose cells are all blank.
func dropEmpty(headers []string, rows [][]string) ([]string, [][]string) {
	var keptRows [][]string
	for _, r := range rows {
		if !allBlank(r) {
			keptRows = append(keptRows, r)
		}
	}

	width := len(headers)
	keepCol := make([]bool, width)
	for i := range keepCol {
		if strings.TrimSpace(headers[i]) != "" {
			keepCol[i] = true
			continue
		}
		for _, r := range keptRows {
			if i < len(r) && strings.TrimSpace(r[i]) != "" {
				keepCol[i] = true
				break
			}
		}
	}

	var outHeaders []string
	for i := 0; i < width; i++ {
		if keepCol[i] {
			outHeaders = append(outHeaders, headers[i])
		}
	}
	outRows := make([][]string, len(keptRows))
	for ri, r := range keptRows {
		var out []string
		for i := 0; i < width; i++ {
			if !keepCol[i] {
				continue
			}
			if i < len(r) {
				out = append(out, r[i])
			} else {
				out = append(out, "")
			}
		}
		outRows[ri] = out
	}
	return outHeaders, outRows
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dedupeNames renames duplicate normalized headers deterministically: the
// first occurrence keeps the name, later ones get _1, _2, ... in upload order.
func dedupeNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		count := seen[n]
		seen[n] = count + 1
		if count == 0 {
			out[i] = n
			continue
		}
		out[i] = fmt.Sprintf("%s_%d", n, count)
	}
	return out
}

func isAllowed(name string) bool {
	for _, c := range po.AllowedColumns {
		if c == name {
			return true
		}
	}
	return false
}
