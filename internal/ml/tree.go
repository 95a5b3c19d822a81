// Package ml implements the delay classifier: a random forest of CART trees
// plus the persisted model artifact and holdout evaluation helpers.
package ml

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Tree is a single fitted CART classification tree, stored as a flat node
// array so it serializes cleanly.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is one tree node. Leaf nodes carry the positive-class fraction of
// the training samples that landed there; internal nodes route on
// feature <= threshold.
type TreeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Leaf      bool    `json:"leaf"`
	Prob      float64 `json:"p"`
}

type treeParams struct {
	maxDepth    int
	minSamples  int
	featureSub  int // features considered per split
	numFeatures int
}

// fitTree grows a tree on the given sample indices.
func fitTree(x [][]float64, y []int, samples []int, params treeParams, rng *rand.Rand) *Tree {
	t := &Tree{}
	t.grow(x, y, samples, 0, params, rng)
	return t
}

// grow appends a subtree for samples and returns its root node index.
func (t *Tree) grow(x [][]float64, y []int, samples []int, depth int, params treeParams, rng *rand.Rand) int {
	pos := 0
	for _, i := range samples {
		pos += y[i]
	}
	prob := float64(pos) / float64(len(samples))

	if depth >= params.maxDepth || len(samples) < params.minSamples || pos == 0 || pos == len(samples) {
		return t.addLeaf(prob)
	}

	feature, threshold, ok := bestSplit(x, y, samples, params, rng)
	if !ok {
		return t.addLeaf(prob)
	}

	var left, right []int
	for _, i := range samples {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return t.addLeaf(prob)
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, TreeNode{Feature: feature, Threshold: threshold})
	l := t.grow(x, y, left, depth+1, params, rng)
	r := t.grow(x, y, right, depth+1, params, rng)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

func (t *Tree) addLeaf(prob float64) int {
	t.Nodes = append(t.Nodes, TreeNode{Leaf: true, Prob: prob})
	return len(t.Nodes) - 1
}

// bestSplit picks the gini-optimal (feature, threshold) over a random feature
// subset. Returns ok=false when no feature has more than one distinct value.
func bestSplit(x [][]float64, y []int, samples []int, params treeParams, rng *rand.Rand) (int, float64, bool) {
	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	for _, feature := range sampleFeatures(params.numFeatures, params.featureSub, rng) {
		type pair struct {
			v float64
			y int
		}
		pairs := make([]pair, len(samples))
		totalPos := 0
		for i, s := range samples {
			pairs[i] = pair{x[s][feature], y[s]}
			totalPos += y[s]
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		n := len(pairs)
		leftN, leftPos := 0, 0
		for i := 0; i < n-1; i++ {
			leftN++
			leftPos += pairs[i].y
			if pairs[i].v == pairs[i+1].v {
				continue
			}
			g := weightedGini(leftPos, leftN, totalPos-leftPos, n-leftN)
			if g < bestGini {
				bestGini = g
				bestFeature = feature
				bestThreshold = (pairs[i].v + pairs[i+1].v) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func weightedGini(leftPos, leftN, rightPos, rightN int) float64 {
	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftPos, leftN) + float64(rightN)/total*gini(rightPos, rightN)
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// sampleFeatures draws featureSub distinct feature indices without
// replacement.
func sampleFeatures(numFeatures, featureSub int, rng *rand.Rand) []int {
	if featureSub >= numFeatures {
		all := make([]int, numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rng.Perm(numFeatures)
	return perm[:featureSub]
}

// predictRow walks the tree and returns the leaf probability.
func (t *Tree) predictRow(row []float64) float64 {
	node := 0
	for {
		n := t.Nodes[node]
		if n.Leaf {
			return n.Prob
		}
		if row[n.Feature] <= n.Threshold {
			node = n.Left
		} else {
			node = n.Right
		}
	}
}
