package agnes

// Cut slices the dendrogram horizontally at threshold and returns a flat
// cluster label per leaf. Every merge with height <= threshold joins its
// two sides; higher merges are not applied, so each surviving subtree is
// one flat cluster (singletons included).
//
// Labels are compacted to 0..k-1 in order of first appearance across the
// leaf index order, so identical input always yields identical labels.
//
// For complete linkage the merge height equals the merged cluster's
// diameter, so every resulting cluster's max pairwise member distance is
// <= threshold.
func Cut(d *Dendrogram, threshold float64) []int {
	n := d.Leaves
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	// rep[node] is one leaf inside the cluster that node stands for.
	rep := make([]int, n+len(d.Merges))
	for i := 0; i < n; i++ {
		rep[i] = i
	}

	for step, m := range d.Merges {
		node := n + step
		// Heights are non-decreasing, so merges above the threshold can
		// simply carry a representative without being applied.
		ra, rb := rep[m.A], rep[m.B]
		rep[node] = ra
		if m.Height <= threshold {
			parent[find(rb)] = find(ra)
		}
	}

	labels := make([]int, n)
	next := 0
	seen := make(map[int]int, n)
	for i := 0; i < n; i++ {
		root := find(i)
		lbl, ok := seen[root]
		if !ok {
			lbl = next
			seen[root] = lbl
			next++
		}
		labels[i] = lbl
	}
	return labels
}
