package consolidation

import "github.com/cortexmemory/cortex/internal/embedding"

// ClusterSimilarityThreshold is the cosine similarity two candidate
// embeddings must meet to be considered neighbors for density clustering.
// Not specified numerically upstream; chosen high enough that only
// near-duplicate observations cluster, consistent with the recall gate's
// own 0.3 threshold being a much looser downstream check.
const ClusterSimilarityThreshold = 0.75

// MinClusterSize is the minimum number of members a density cluster must
// have; smaller groups are reported as noise and skipped.
const MinClusterSize = 2

// ClusterCandidates groups embeddings by density (a DBSCAN variant using
// cosine similarity as the neighborhood predicate instead of a distance
// metric). Indices into embeddings are returned grouped by cluster, with
// any index belonging to no cluster of at least MinClusterSize returned as
// noise.
func ClusterCandidates(embeddings [][]float32) ClusterResult {
	n := len(embeddings)
	if n == 0 {
		return ClusterResult{}
	}

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sim, err := embedding.CosineSimilarity(embeddings[i], embeddings[j])
			if err == nil && sim >= ClusterSimilarityThreshold {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}

	const (
		unvisited = 0
		noise     = -1
	)
	labels := make([]int, n) // 0 = unvisited, -1 = noise, >0 = cluster id
	nextCluster := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		if len(neighbors[i])+1 < MinClusterSize {
			labels[i] = noise
			continue
		}

		nextCluster++
		labels[i] = nextCluster
		seeds := append([]int(nil), neighbors[i]...)
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if labels[j] == noise {
				labels[j] = nextCluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = nextCluster
			if len(neighbors[j])+1 >= MinClusterSize {
				seeds = append(seeds, neighbors[j]...)
			}
		}
	}

	clusters := make([]Cluster, nextCluster)
	var noiseIdx []int
	for i, label := range labels {
		switch {
		case label == noise:
			noiseIdx = append(noiseIdx, i)
		case label > 0:
			clusters[label-1].Indices = append(clusters[label-1].Indices, i)
		}
	}

	// A cluster id can end up under MinClusterSize if every non-core member
	// discovered late was only reachable through a single core point already
	// absorbed elsewhere; demote those to noise rather than emit them.
	var kept []Cluster
	for _, c := range clusters {
		if len(c.Indices) >= MinClusterSize {
			kept = append(kept, c)
		} else {
			noiseIdx = append(noiseIdx, c.Indices...)
		}
	}

	return ClusterResult{Clusters: kept, Noise: noiseIdx}
}
