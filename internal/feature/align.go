package feature

// Align reshapes a freshly encoded matrix to a trained model's feature
// vocabulary: vocabulary columns absent from the fresh encoding become
// zero-filled, columns the model never saw are dropped, and the result is in
// exact vocabulary order. The output always has len(vocab) columns.
func Align(m *Matrix, vocab []string) *Matrix {
	index := make(map[string]int, len(m.Names))
	for i, n := range m.Names {
		index[n] = i
	}

	out := &Matrix{
		Names: append([]string(nil), vocab...),
		Rows:  make([][]float64, len(m.Rows)),
	}
	for ri, row := range m.Rows {
		aligned := make([]float64, len(vocab))
		for ci, name := range vocab {
			if si, ok := index[name]; ok {
				aligned[ci] = row[si]
			}
		}
		out.Rows[ri] = aligned
	}
	return out
}
