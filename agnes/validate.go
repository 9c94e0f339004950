package agnes

import (
	"time"

	"go-hotspot/types"
)

// Validate computes the global quality indices of a partition: silhouette
// (range [-1,1], higher better), Davies-Bouldin (>=0, lower better) and
// Calinski-Harabasz (>=0, higher better). Only surviving clusters count;
// unclustered points are excluded.
//
// With fewer than two clusters the indices are undefined, and the returned
// metrics carry nil index fields rather than an error.
func Validate(clusters []types.Cluster, points []types.Point, metric Metric) *types.ValidationMetrics {
	m := &types.ValidationMetrics{
		ComputedAt:  time.Now().UTC(),
		NumClusters: len(clusters),
	}

	byID := make(map[string]types.Point, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}

	// Member coordinates per cluster, in member order.
	groups := make([][]types.Point, len(clusters))
	total := 0
	for i, c := range clusters {
		for _, id := range c.MemberIDs {
			if p, ok := byID[id]; ok {
				groups[i] = append(groups[i], p)
			}
		}
		total += len(groups[i])
	}
	m.TotalPoints = total

	if len(clusters) < 2 {
		m.Quality = m.InterpretQuality()
		return m
	}

	sil := silhouette(groups, metric)
	db := daviesBouldin(clusters, groups, metric)
	ch := calinskiHarabasz(clusters, groups, total, metric)

	m.Silhouette = &sil
	m.DaviesBouldin = &db
	m.CalinskiHarabasz = &ch
	m.Quality = m.InterpretQuality()
	return m
}

// silhouette: per point, a = mean distance to the rest of its own cluster,
// b = minimum over other clusters of the mean distance to their members;
// score = (b-a)/max(a,b), 0 when a == b == 0. Overall score is the mean
// over all clustered points.
func silhouette(groups [][]types.Point, metric Metric) float64 {
	var sum float64
	var n int

	for gi, g := range groups {
		for pi, p := range g {
			var a float64
			if len(g) > 1 {
				for qi, q := range g {
					if qi == pi {
						continue
					}
					a += metric(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
				}
				a /= float64(len(g) - 1)
			}

			b := -1.0
			for gj, h := range groups {
				if gj == gi || len(h) == 0 {
					continue
				}
				var d float64
				for _, q := range h {
					d += metric(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
				}
				d /= float64(len(h))
				if b < 0 || d < b {
					b = d
				}
			}

			var s float64
			if maxAB := max(a, b); maxAB > 0 {
				s = (b - a) / maxAB
			}
			sum += s
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// daviesBouldin: mean over clusters of the worst (scatter_i + scatter_j) /
// centroidDistance(i, j) ratio against any other cluster. Pairs with
// coincident centroids are skipped; they cannot be compared.
func daviesBouldin(clusters []types.Cluster, groups [][]types.Point, metric Metric) float64 {
	k := len(clusters)
	scatter := make([]float64, k)
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		var s float64
		for _, p := range g {
			s += metric(clusters[i].Lat, clusters[i].Long, p.Latitude, p.Longitude)
		}
		scatter[i] = s / float64(len(g))
	}

	var sum float64
	for i := 0; i < k; i++ {
		worst := 0.0
		for j := 0; j < k; j++ {
			if j == i {
				continue
			}
			cd := metric(clusters[i].Lat, clusters[i].Long, clusters[j].Lat, clusters[j].Long)
			if cd == 0 {
				continue
			}
			if r := (scatter[i] + scatter[j]) / cd; r > worst {
				worst = r
			}
		}
		sum += worst
	}
	return sum / float64(k)
}

// calinskiHarabasz: between-cluster dispersion over within-cluster
// dispersion, scaled by (N-k)/(k-1). Zero within-cluster dispersion means
// every member sits on its centroid; the ratio is reported as 0 rather
// than dividing by zero.
func calinskiHarabasz(clusters []types.Cluster, groups [][]types.Point, total int, metric Metric) float64 {
	k := len(clusters)
	if k < 2 || total <= k {
		return 0
	}

	var grandLat, grandLon float64
	for _, g := range groups {
		for _, p := range g {
			grandLat += p.Latitude
			grandLon += p.Longitude
		}
	}
	grandLat /= float64(total)
	grandLon /= float64(total)

	var between, within float64
	for i, g := range groups {
		d := metric(clusters[i].Lat, clusters[i].Long, grandLat, grandLon)
		between += float64(len(g)) * d * d
		for _, p := range g {
			w := metric(clusters[i].Lat, clusters[i].Long, p.Latitude, p.Longitude)
			within += w * w
		}
	}

	if within == 0 {
		return 0
	}
	return (between / within) * (float64(total-k) / float64(k-1))
}
