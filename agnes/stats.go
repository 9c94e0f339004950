package agnes

import (
	"time"

	"go-hotspot/types"
)

// BuildClusters turns flat labels into hotspot clusters. Label groups
// smaller than minSize are reclassified: every member becomes an
// UnclusteredPoint rather than being silently dropped, so each input
// point lands in exactly one surviving cluster or exactly once in the
// unclustered list.
//
// Per surviving group it computes the centroid (mean of member
// coordinates), the bounding box, the radius (max metric distance from
// centroid to any member), accident and casualty totals, the date range,
// and the primary location: the most frequent municipality among members,
// ties broken by first occurrence in input order.
func BuildClusters(points []types.Point, labels []int, minSize int, metric Metric) ([]types.Cluster, []types.UnclusteredPoint, error) {
	if len(points) != len(labels) {
		return nil, nil, ErrDimensionMismatch
	}

	// Group member indexes per label, preserving input order.
	groups := make(map[int][]int)
	order := make([]int, 0)
	for i, lbl := range labels {
		if _, ok := groups[lbl]; !ok {
			order = append(order, lbl)
		}
		groups[lbl] = append(groups[lbl], i)
	}

	var clusters []types.Cluster
	var unclustered []types.UnclusteredPoint

	for _, lbl := range order {
		members := groups[lbl]
		if len(members) < minSize {
			for _, i := range members {
				p := points[i]
				unclustered = append(unclustered, types.UnclusteredPoint{
					PointID:   p.ID,
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
					GroupSize: len(members),
				})
			}
			continue
		}
		clusters = append(clusters, buildCluster(points, members, lbl, metric))
	}

	return clusters, unclustered, nil
}

func buildCluster(points []types.Point, members []int, label int, metric Metric) types.Cluster {
	first := points[members[0]]

	c := types.Cluster{
		Label:         label,
		AccidentCount: len(members),
		BoundingBox: types.BoundingBox{
			MinLat: first.Latitude, MaxLat: first.Latitude,
			MinLon: first.Longitude, MaxLon: first.Longitude,
		},
		MemberIDs: make([]string, 0, len(members)),
	}

	var sumLat, sumLon float64
	locCounts := make(map[string]int)
	locOrder := make([]string, 0)
	var dateStart, dateEnd time.Time

	for _, i := range members {
		p := points[i]
		c.MemberIDs = append(c.MemberIDs, p.ID)

		if p.Latitude < c.BoundingBox.MinLat {
			c.BoundingBox.MinLat = p.Latitude
		}
		if p.Latitude > c.BoundingBox.MaxLat {
			c.BoundingBox.MaxLat = p.Latitude
		}
		if p.Longitude < c.BoundingBox.MinLon {
			c.BoundingBox.MinLon = p.Longitude
		}
		if p.Longitude > c.BoundingBox.MaxLon {
			c.BoundingBox.MaxLon = p.Longitude
		}

		sumLat += p.Latitude
		sumLon += p.Longitude

		c.KilledCount += p.Killed
		c.InjuredCount += p.Injured

		if _, ok := locCounts[p.Municipality]; !ok {
			locOrder = append(locOrder, p.Municipality)
		}
		locCounts[p.Municipality]++

		if !p.Timestamp.IsZero() {
			if dateStart.IsZero() || p.Timestamp.Before(dateStart) {
				dateStart = p.Timestamp
			}
			if dateEnd.IsZero() || p.Timestamp.After(dateEnd) {
				dateEnd = p.Timestamp
			}
		}
	}

	count := float64(len(members))
	c.Lat = sumLat / count
	c.Long = sumLon / count
	c.DateRangeStart = dateStart
	c.DateRangeEnd = dateEnd

	// Radius: max distance from centroid to any member.
	for _, i := range members {
		p := points[i]
		if d := metric(c.Lat, c.Long, p.Latitude, p.Longitude); d > c.Radius {
			c.Radius = d
		}
	}

	// Primary location: modal municipality, first occurrence wins ties.
	best := -1
	for _, loc := range locOrder {
		if locCounts[loc] > best {
			best = locCounts[loc]
			c.PrimaryLocation = loc
		}
	}
	c.Municipalities = locOrder

	return c
}
