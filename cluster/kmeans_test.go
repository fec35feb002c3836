package cluster

import (
	"math/rand"
	"testing"
)

func sampleVectors() [][]float64 {
	// Three well-separated blobs in 2-D.
	return [][]float64{
		{0, 0}, {0.1, 0.1}, {0.2, -0.1}, {-0.1, 0.1},
		{10, 10}, {10.1, 9.9}, {9.9, 10.1}, {10.2, 10},
		{-10, 10}, {-10.1, 9.8}, {-9.9, 10.2}, {-10, 9.9},
	}
}

func TestKMeansDeterministicWithFixedSeed(t *testing.T) {
	t.Parallel()
	x := sampleVectors()
	cfg := DefaultConfig()

	r1 := KMeans(x, 3, cfg, rand.New(rand.NewSource(42)))
	r2 := KMeans(x, 3, cfg, rand.New(rand.NewSource(42)))

	if len(r1.Assignments) != len(r2.Assignments) {
		t.Fatalf("assignment length mismatch: %d vs %d", len(r1.Assignments), len(r2.Assignments))
	}
	for i := range r1.Assignments {
		if r1.Assignments[i] != r2.Assignments[i] {
			t.Fatalf("assignments diverge at index %d: %d vs %d", i, r1.Assignments[i], r2.Assignments[i])
		}
	}
	if r1.MeanDist != r2.MeanDist {
		t.Errorf("expected identical mean distance across runs with the same seed, got %f vs %f", r1.MeanDist, r2.MeanDist)
	}
}

// TestKMeansSeparatesBlobs checks that points from the same well-separated
// blob always land in the same cluster.
func TestKMeansSeparatesBlobs(t *testing.T) {
	t.Parallel()
	x := sampleVectors()
	cfg := DefaultConfig()
	result := KMeans(x, 3, cfg, rand.New(rand.NewSource(1)))

	blobs := [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}}
	for _, blob := range blobs {
		first := result.Assignments[blob[0]]
		for _, idx := range blob[1:] {
			if result.Assignments[idx] != first {
				t.Errorf("expected indices %v to share a cluster, got assignments %v", blob, result.Assignments)
			}
		}
	}
}

// TestKMeansMultipleRunsKeepsLowestCost checks that increasing Runs never
// increases the returned mean intra-cluster distance, since KMeans keeps
// the best of its restarts.
func TestKMeansMultipleRunsKeepsLowestCost(t *testing.T) {
	t.Parallel()
	x := sampleVectors()

	cfg1 := DefaultConfig()
	cfg1.Runs = 1
	single := KMeans(x, 3, cfg1, rand.New(rand.NewSource(5)))

	cfgMany := DefaultConfig()
	cfgMany.Runs = 20
	many := KMeans(x, 3, cfgMany, rand.New(rand.NewSource(5)))

	if many.MeanDist > single.MeanDist+1e-9 {
		t.Errorf("expected more restarts to never worsen mean distance, single=%f many=%f", single.MeanDist, many.MeanDist)
	}
}

func TestL2Distance(t *testing.T) {
	t.Parallel()
	d := L2{}.Dist([]float64{0, 0}, []float64{3, 4})
	if d != 5 {
		t.Errorf("expected Euclidean distance 5 for a 3-4-5 triangle, got %f", d)
	}
}

func TestEMDDistance(t *testing.T) {
	t.Parallel()
	d := EMD{}.Dist([]float64{1, 0, 0}, []float64{0, 0, 1})
	if d <= 0 {
		t.Errorf("expected a positive EMD distance between disjoint histograms, got %f", d)
	}
	same := EMD{}.Dist([]float64{0.2, 0.3, 0.5}, []float64{0.2, 0.3, 0.5})
	if same != 0 {
		t.Errorf("expected zero EMD distance for identical histograms, got %f", same)
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	t.Parallel()
	x := sampleVectors()
	result := KMeans(x, 1, DefaultConfig(), rand.New(rand.NewSource(1)))
	for _, a := range result.Assignments {
		if a != 0 {
			t.Errorf("expected every point assigned to the single cluster 0, got %d", a)
		}
	}
}
