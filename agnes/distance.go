package agnes

import (
	"math"
	"runtime"
	"sync"

	"go-hotspot/types"
)

const earthRadiusKM = 6371.0

// Metric measures the distance between two coordinate pairs given in
// decimal degrees. Must be symmetric, non-negative and zero for identical
// inputs.
type Metric func(lat1, lon1, lat2, lon2 float64) float64

// EuclideanDegrees is the default metric: planar Euclidean distance over
// (latitude, longitude) treated as a 2-D coordinate pair in decimal
// degrees. It is NOT geodesic; its error grows with region size and
// latitude. It is kept as the default deliberately, because hotspot
// membership was tuned against it (threshold 0.05 ~ 5km near the equator).
func EuclideanDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// HaversineKM is the great-circle distance in kilometers. Available for
// callers that want geodesic radii; never substituted for the default.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// MetricByName resolves a metric from its configuration name.
// Empty string means the default.
func MetricByName(name string) (Metric, error) {
	switch name {
	case "", "euclidean":
		return EuclideanDegrees, nil
	case "haversine":
		return HaversineKM, nil
	default:
		return nil, ErrUnknownMetric
	}
}

// DistanceMatrix is a symmetric N x N matrix of pairwise point distances,
// stored row-major.
type DistanceMatrix struct {
	n    int
	vals []float64
}

// N returns the number of points.
func (m *DistanceMatrix) N() int { return m.n }

// At returns the distance between points i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.vals[i*m.n+j] }

// NewDistanceMatrix computes all pairwise distances between points using
// the given metric. Pure function of its inputs. Rows are filled across a
// small worker pool; each cell is independent, so the result is identical
// to the sequential computation.
func NewDistanceMatrix(points []types.Point, metric Metric) (*DistanceMatrix, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrInsufficientData
	}

	m := &DistanceMatrix{n: n, vals: make([]float64, n*n)}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	rows := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				pi := points[i]
				for j := i + 1; j < n; j++ {
					pj := points[j]
					d := metric(pi.Latitude, pi.Longitude, pj.Latitude, pj.Longitude)
					m.vals[i*n+j] = d
					m.vals[j*n+i] = d
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()

	return m, nil
}
