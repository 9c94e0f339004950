package agnes

import "go-hotspot/types"

// Agglomerative linkage engine (AGNES).
//
// Outline:
//  1. Start with N singleton clusters, one per point.
//  2. At each step find the pair of live clusters with the smallest
//     linkage distance under the selected rule (complete/single/average)
//     and merge it, recording the merge height.
//  3. Repeat until one cluster remains (N-1 merges).
//
// The dendrogram is an arena of merge records indexed by merge order, not
// a pointer tree: node ids 0..N-1 are the leaves, node N+k is the cluster
// created by merge k. That keeps the merge order and tie-breaks auditable.
//
// Tie-break: when several pairs share the minimum linkage distance, the
// pair with the lowest smaller node id wins, then the lowest larger node
// id. Output is therefore deterministic for identical input, including
// inputs with coincident points (all-zero distances).
//
// Cluster-to-cluster distances are maintained incrementally with the
// Lance-Williams recurrences for the three supported rules, which are
// exactly equivalent to recomputing over member pairs:
//
//	complete: d(a+b, o) = max(d(a,o), d(b,o))
//	single:   d(a+b, o) = min(d(a,o), d(b,o))
//	average:  d(a+b, o) = (|a|*d(a,o) + |b|*d(b,o)) / (|a|+|b|)
//
// Complexity: O(N^2) per merge on the live-pair scan, O(N^3) total;
// O(N^2) memory. Acceptable for batch jobs on bounded regional datasets.

// Merge records one dendrogram merge. A and B are node ids (leaves first,
// then earlier merges); Height is the linkage distance at which they were
// joined; Size is the member count of the merged cluster.
type Merge struct {
	A, B   int
	Height float64
	Size   int
}

// Dendrogram is the full merge history of one clustering, ordered by
// merge step. Heights are non-decreasing: the three supported linkage
// rules are monotone, so no inversions occur.
type Dendrogram struct {
	Leaves int
	Merges []Merge
}

// Root returns the node id of the final merge, or -1 for a single leaf.
func (d *Dendrogram) Root() int {
	if len(d.Merges) == 0 {
		return -1
	}
	return d.Leaves + len(d.Merges) - 1
}

// Build runs agglomerative clustering over the distance matrix and
// returns the dendrogram. onMerge, when non-nil, is called after every
// merge with the completed step count and the total number of merges;
// it is how long runs report progress.
func Build(dm *DistanceMatrix, linkage types.Linkage, onMerge func(done, total int)) *Dendrogram {
	n := dm.N()
	total := 2*n - 1 // leaves + merges

	// dist[a][b] is the current linkage distance between live clusters a
	// and b (node ids). Seeded from the point distances.
	dist := make([][]float64, total)
	for i := range dist {
		dist[i] = make([]float64, total)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dist[i][j] = dm.At(i, j)
		}
	}

	size := make([]int, total)
	for i := 0; i < n; i++ {
		size[i] = 1
	}

	// Live cluster ids in ascending order. New ids are always the largest
	// so far, so appending preserves the order the tie-break relies on.
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	d := &Dendrogram{Leaves: n, Merges: make([]Merge, 0, n-1)}

	for step := 0; step < n-1; step++ {
		// Scan live pairs in (a, b) ascending id order; strict < keeps
		// the first minimum, which is the tie-break winner.
		bestA, bestB := -1, -1
		bestDist := 0.0
		for ai := 0; ai < len(active); ai++ {
			for bi := ai + 1; bi < len(active); bi++ {
				a, b := active[ai], active[bi]
				if bestA == -1 || dist[a][b] < bestDist {
					bestA, bestB = a, b
					bestDist = dist[a][b]
				}
			}
		}

		next := n + step
		size[next] = size[bestA] + size[bestB]
		d.Merges = append(d.Merges, Merge{A: bestA, B: bestB, Height: bestDist, Size: size[next]})

		// Lance-Williams update of the new cluster's distances.
		for _, o := range active {
			if o == bestA || o == bestB {
				continue
			}
			da, db := dist[bestA][o], dist[bestB][o]
			var dn float64
			switch linkage {
			case types.SingleLinkage:
				dn = da
				if db < dn {
					dn = db
				}
			case types.AverageLinkage:
				dn = (float64(size[bestA])*da + float64(size[bestB])*db) / float64(size[next])
			default: // complete
				dn = da
				if db > dn {
					dn = db
				}
			}
			dist[next][o] = dn
			dist[o][next] = dn
		}

		// Drop the merged pair, keep the rest in order, append the new id.
		live := active[:0]
		for _, id := range active {
			if id != bestA && id != bestB {
				live = append(live, id)
			}
		}
		active = append(live, next)

		if onMerge != nil {
			onMerge(step+1, n-1)
		}
	}

	return d
}
