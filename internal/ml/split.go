package ml

import "math/rand/v2"

// StratifiedSplit partitions row indices into train and holdout sets,
// splitting each class separately so both partitions keep the class balance.
// Deterministic for a given seed.
func StratifiedSplit(y []int, holdout float64, seed int64) (train, test []int) {
	if holdout <= 0 || holdout >= 1 {
		holdout = 0.2
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))

	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	for _, label := range []int{0, 1} {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		cut := int(float64(len(idx)) * holdout)
		test = append(test, idx[:cut]...)
		train = append(train, idx[cut:]...)
	}
	return train, test
}

// Subset gathers the rows and labels at the given indices.
func Subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	sx := make([][]float64, len(idx))
	sy := make([]int, len(idx))
	for i, j := range idx {
		sx[i] = x[j]
		sy[i] = y[j]
	}
	return sx, sy
}
