package consolidation

import "testing"

func TestClusterCandidatesGroupsSimilarEmbeddings(t *testing.T) {
	embeddings := [][]float32{
		{1.0, 0.0, 0.0},
		{0.99, 0.01, 0.0},
		{0.98, 0.02, 0.0},
		{0.0, 1.0, 0.0},
	}
	result := ClusterCandidates(embeddings)
	if len(result.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d (%+v)", len(result.Clusters), result)
	}
	if len(result.Clusters[0].Indices) != 3 {
		t.Errorf("expected 3 members in the dense cluster, got %d", len(result.Clusters[0].Indices))
	}
	if len(result.Noise) != 1 || result.Noise[0] != 3 {
		t.Errorf("expected index 3 to be noise, got %v", result.Noise)
	}
}

func TestClusterCandidatesAllNoiseWhenNoDensity(t *testing.T) {
	embeddings := [][]float32{
		{1.0, 0.0, 0.0},
		{0.0, 1.0, 0.0},
		{0.0, 0.0, 1.0},
	}
	result := ClusterCandidates(embeddings)
	if len(result.Clusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(result.Clusters))
	}
	if len(result.Noise) != 3 {
		t.Errorf("expected all 3 points as noise, got %d", len(result.Noise))
	}
}

func TestClusterCandidatesEmptyInput(t *testing.T) {
	result := ClusterCandidates(nil)
	if len(result.Clusters) != 0 || len(result.Noise) != 0 {
		t.Errorf("expected empty result for no embeddings, got %+v", result)
	}
}
