package forest

import (
	"math/rand"
	"sort"
)

// node is a single tree node. Leaves have feature == -1.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// Tree is a CART regression tree that splits on squared error.
type Tree struct {
	nodes     []node
	nFeatures int
	// importance[f] is the total squared-error reduction of splits on f.
	importance []float64
}

// treeParams are the growth limits a tree is built with.
type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

// builder grows one tree over column-major training data.
type builder struct {
	cols   [][]float64
	y      []float64
	params treeParams
	rng    *rand.Rand
	tree   *Tree
}

func growTree(cols [][]float64, y []float64, samples []int, params treeParams, rng *rand.Rand) *Tree {
	t := &Tree{
		nFeatures:  len(cols),
		importance: make([]float64, len(cols)),
	}
	b := &builder{cols: cols, y: y, params: params, rng: rng, tree: t}
	b.build(samples, 0)
	return t
}

// build grows the subtree over idx and returns its node index.
func (b *builder) build(idx []int, depth int) int {
	var sum, sumSq float64
	for _, i := range idx {
		v := b.y[i]
		sum += v
		sumSq += v * v
	}
	n := float64(len(idx))
	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{feature: -1, value: sum / n})

	if len(idx) < b.params.minSamplesSplit || (b.params.maxDepth > 0 && depth >= b.params.maxDepth) {
		return id
	}
	// pure node: squared error is (numerically) zero
	if sumSq-sum*sum/n <= 1e-9*max(1, sumSq) {
		return id
	}

	feature, threshold, gain, ok := b.bestSplit(idx, sum)
	if !ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	col := b.cols[feature]
	for _, i := range idx {
		if col[i] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	b.tree.importance[feature] += gain

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.tree.nodes[id].feature = feature
	b.tree.nodes[id].threshold = threshold
	b.tree.nodes[id].left = l
	b.tree.nodes[id].right = r
	return id
}

// bestSplit scans candidate features for the threshold that maximizes the
// reduction in squared error. gain is that reduction.
func (b *builder) bestSplit(idx []int, sum float64) (feature int, threshold, gain float64, ok bool) {
	n := len(idx)
	parentScore := sum * sum / float64(n)
	bestScore := parentScore
	minLeaf := b.params.minSamplesLeaf

	candidates := b.candidateFeatures()
	sorted := make([]int, n)
	for _, f := range candidates {
		col := b.cols[f]
		copy(sorted, idx)
		sort.Slice(sorted, func(i, j int) bool { return col[sorted[i]] < col[sorted[j]] })
		if col[sorted[0]] == col[sorted[n-1]] {
			continue // constant feature at this node
		}

		var leftSum float64
		for i := 0; i < n-1; i++ {
			leftSum += b.y[sorted[i]]
			leftN := i + 1
			rightN := n - leftN
			a, c := col[sorted[i]], col[sorted[i+1]]
			if a == c || leftN < minLeaf || rightN < minLeaf {
				continue
			}
			rightSum := sum - leftSum
			score := leftSum*leftSum/float64(leftN) + rightSum*rightSum/float64(rightN)
			if score > bestScore+1e-12 {
				bestScore = score
				feature = f
				threshold = a + (c-a)/2
				if threshold >= c {
					threshold = a
				}
				ok = true
			}
		}
	}
	return feature, threshold, bestScore - parentScore, ok
}

func (b *builder) candidateFeatures() []int {
	k := b.params.maxFeatures
	nf := len(b.cols)
	if k <= 0 || k >= nf {
		all := make([]int, nf)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return b.rng.Perm(nf)[:k]
}

// Predict returns the leaf value reached by row.
func (t *Tree) Predict(row []float64) float64 {
	id := 0
	for {
		nd := t.nodes[id]
		if nd.feature < 0 {
			return nd.value
		}
		if row[nd.feature] <= nd.threshold {
			id = nd.left
		} else {
			id = nd.right
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(id int) int
	walk = func(id int) int {
		nd := t.nodes[id]
		if nd.feature < 0 {
			return 0
		}
		return 1 + max(walk(nd.left), walk(nd.right))
	}
	return walk(0)
}

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	count := 0
	for _, nd := range t.nodes {
		if nd.feature < 0 {
			count++
		}
	}
	return count
}
