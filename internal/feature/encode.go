// Package feature builds the model-ready matrix from a canonical PO table and
// aligns inference-time encodings to a trained model's feature vocabulary.
package feature

import (
	"sort"

	"github.com/sells-group/po-insight/internal/po"
)

// Whitelist is the fixed set of model input columns, in encoding order.
// Deliberately excludes days_to_close (the target) and all raw dates.
var Whitelist = []string{
	po.ColDaysAging,
	po.ColPOType,
	po.ColPOStatusDesc,
	po.ColCostAmount,
	po.ColOrderQty,
	po.ColPOAgent,
	po.ColFacilityDesc,
	po.ColWarehouse,
}

var whitelistNumeric = map[string]bool{
	po.ColDaysAging:  true,
	po.ColCostAmount: true,
	po.ColOrderQty:   true,
}

// Matrix is an encoded feature matrix: one named column per feature, one
// float row per table row.
type Matrix struct {
	Names []string
	Rows  [][]float64
}

// Encode one-hot encodes the whitelist columns of a canonical table. Numeric
// columns pass through (nulls become 0); categorical columns expand to one
// "col=VALUE" indicator per distinct value, values sorted per column so the
// encoding is deterministic for a given table. Returns po.FeatureError when
// any whitelist column is absent.
func Encode(table *po.Table) (*Matrix, error) {
	if missing := table.Missing(Whitelist); len(missing) > 0 {
		return nil, &po.FeatureError{Missing: missing}
	}

	type column struct {
		name string
		// numeric source column, or categorical indicator source.
		numericCol string
		textCol    string
		textValue  string
	}

	var columns []column
	for _, col := range Whitelist {
		if whitelistNumeric[col] {
			columns = append(columns, column{name: col, numericCol: col})
			continue
		}
		values := distinctValues(table, col)
		for _, v := range values {
			columns = append(columns, column{
				name:      col + "=" + v,
				textCol:   col,
				textValue: v,
			})
		}
	}

	m := &Matrix{Names: make([]string, len(columns))}
	for i, c := range columns {
		m.Names[i] = c.name
	}

	m.Rows = make([][]float64, len(table.Rows))
	for ri, rec := range table.Rows {
		row := make([]float64, len(columns))
		for ci, c := range columns {
			if c.numericCol != "" {
				if v := rec.Numeric(c.numericCol); v != nil {
					row[ci] = *v
				}
				continue
			}
			if rec.Text(c.textCol) == c.textValue {
				row[ci] = 1
			}
		}
		m.Rows[ri] = row
	}
	return m, nil
}

// distinctValues returns the sorted distinct values of a text column.
func distinctValues(table *po.Table, col string) []string {
	seen := make(map[string]bool)
	for _, rec := range table.Rows {
		seen[rec.Text(col)] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
