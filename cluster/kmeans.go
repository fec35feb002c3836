// Package cluster implements k-means++ clustering over feature vectors
// (typically per-hand equity histograms), used to build the postflop
// bucket abstraction.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Distance computes the distance between two equal-length feature vectors.
type Distance interface {
	Dist(a, b []float64) float64
}

// L2 is Euclidean distance, delegating to gonum/floats.
type L2 struct{}

// Dist returns the Euclidean distance between a and b.
func (L2) Dist(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// EMD approximates earth-mover's distance between two 1-D histograms as the
// L1 norm of their cumulative sums, per the standard closed-form EMD for
// one-dimensional distributions.
type EMD struct{}

// Dist returns the cumulative-sum L1 distance between histograms a and b.
func (EMD) Dist(a, b []float64) float64 {
	var sum, cumA, cumB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		cumA += a[i]
		cumB += b[i]
		sum += math.Abs(cumA - cumB)
	}
	return sum
}

// Config controls the k-means++ run.
type Config struct {
	Runs      int // number of independent restarts; keeps the lowest-cost result
	MaxIters  int
	Tolerance float64
	Metric    Distance
}

// DefaultConfig returns reasonable defaults: 5 runs, 100 iterations, L2
// distance, and a tight convergence tolerance.
func DefaultConfig() Config {
	return Config{Runs: 5, MaxIters: 100, Tolerance: 1e-6, Metric: L2{}}
}

// Result holds the outcome of a k-means run.
type Result struct {
	Centers     [][]float64
	Assignments []int
	MeanDist    float64
}

// KMeans clusters x into k centers using k-means++ seeding and Lloyd's
// algorithm with triangle-inequality pruning, retrying cfg.Runs times and
// keeping the result with the lowest mean intra-cluster distance.
func KMeans(x [][]float64, k int, cfg Config, rng *rand.Rand) Result {
	if cfg.Metric == nil {
		cfg.Metric = L2{}
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	if cfg.MaxIters <= 0 {
		cfg.MaxIters = 100
	}

	var best Result
	bestCost := math.Inf(1)

	for run := 0; run < cfg.Runs; run++ {
		centers := seedPlusPlus(x, k, cfg.Metric, rng)
		assignments, centers := lloyd(x, centers, cfg)
		cost := meanIntraClusterDistance(x, centers, assignments, cfg.Metric)
		if cost < bestCost {
			bestCost = cost
			best = Result{Centers: centers, Assignments: assignments, MeanDist: cost}
		}
	}

	return best
}

// seedPlusPlus implements k-means++ seeding: the first center is uniform
// random, and each subsequent center is sampled with probability
// proportional to D(x)^2, the squared distance to the nearest already-
// chosen center.
func seedPlusPlus(x [][]float64, k int, metric Distance, rng *rand.Rand) [][]float64 {
	n := len(x)
	centers := make([][]float64, 0, k)
	centers = append(centers, cloneVec(x[rng.Intn(n)]))

	dist := make([]float64, n)
	for len(centers) < k {
		total := 0.0
		for i, p := range x {
			d := nearestDist(p, centers, metric)
			dist[i] = d * d
			total += dist[i]
		}
		if total == 0 {
			centers = append(centers, cloneVec(x[rng.Intn(n)]))
			continue
		}
		target := rng.Float64() * total
		cum := 0.0
		chosen := n - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, cloneVec(x[chosen]))
	}
	return centers
}

func nearestDist(p []float64, centers [][]float64, metric Distance) float64 {
	best := math.Inf(1)
	for _, c := range centers {
		d := metric.Dist(p, c)
		if d < best {
			best = d
		}
	}
	return best
}

// lloyd runs the assignment/update loop. A triangle-inequality pruning rule
// skips recomputing the distance from a point to a candidate center c'
// unless dist(currentCenter, c') < 2*dist(point, currentCenter) — if the
// two centers are far enough apart, c' cannot possibly be closer than the
// point's current assignment.
func lloyd(x [][]float64, centers [][]float64, cfg Config) ([]int, [][]float64) {
	n := len(x)
	k := len(centers)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	centerDist := make([][]float64, k)
	for i := range centerDist {
		centerDist[i] = make([]float64, k)
	}

	for iter := 0; iter < cfg.MaxIters; iter++ {
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				d := cfg.Metric.Dist(centers[i], centers[j])
				centerDist[i][j] = d
				centerDist[j][i] = d
			}
		}

		changed := false
		for i, p := range x {
			cur := assignments[i]
			bestIdx := cur
			bestDist := math.Inf(1)
			curDist := math.Inf(1)
			if cur >= 0 {
				curDist = cfg.Metric.Dist(p, centers[cur])
				bestDist = curDist
			}

			for c := 0; c < k; c++ {
				if c == cur {
					continue
				}
				if cur >= 0 && centerDist[cur][c] >= 2*curDist {
					continue // triangle inequality: c cannot beat cur
				}
				d := cfg.Metric.Dist(p, centers[c])
				if d < bestDist {
					bestDist = d
					bestIdx = c
				}
			}

			if bestIdx != cur {
				assignments[i] = bestIdx
				changed = true
			}
		}

		newCenters := updateCenters(x, assignments, k, len(centers[0]))
		shift := 0.0
		for c := range centers {
			shift += cfg.Metric.Dist(centers[c], newCenters[c])
		}
		centers = newCenters

		if !changed || shift < cfg.Tolerance {
			break
		}
	}

	return assignments, centers
}

func updateCenters(x [][]float64, assignments []int, k, dims int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, p := range x {
		c := assignments[i]
		if c < 0 {
			continue
		}
		counts[c]++
		for d := 0; d < dims; d++ {
			sums[c][d] += p[d]
		}
	}

	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < dims; d++ {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

func meanIntraClusterDistance(x [][]float64, centers [][]float64, assignments []int, metric Distance) float64 {
	if len(x) == 0 {
		return 0
	}
	total := 0.0
	for i, p := range x {
		total += metric.Dist(p, centers[assignments[i]])
	}
	return total / float64(len(x))
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
