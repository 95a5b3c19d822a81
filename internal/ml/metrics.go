package ml

// Metrics holds binary classification quality numbers for the positive
// (delayed) class on a holdout partition.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
	Holdout   int
}

// Evaluate scores predicted probabilities against true labels at a 0.5
// cutoff.
func Evaluate(probs []float64, y []int) Metrics {
	var tp, fp, fn, correct int
	for i, p := range probs {
		pred := 0
		if p >= 0.5 {
			pred = 1
		}
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 1 && y[i] == 0:
			fp++
		case pred == 0 && y[i] == 1:
			fn++
		}
		if pred == y[i] {
			correct++
		}
	}

	m := Metrics{Holdout: len(probs)}
	if len(probs) == 0 {
		return m
	}
	m.Accuracy = float64(correct) / float64(len(probs))
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
