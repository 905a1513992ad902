package consolidation

import (
	"github.com/cortexmemory/cortex/internal/consolidation/algorithms"
	"github.com/cortexmemory/cortex/internal/embedding"
	"github.com/cortexmemory/cortex/internal/types"
)

// RecallThreshold is the minimum recall score for a cluster to pass the gate.
const RecallThreshold = 0.3

// TopK is the number of top similarity results checked against cluster membership.
const TopK = 10

// KeyPhraseLimit bounds how many TF-IDF key phrases are extracted per cluster.
const KeyPhraseLimit = 5

// CheckRecall extracts TF-IDF key phrases from a cluster, builds a query
// vector from the cluster's centroid embedding, and checks how many cluster
// members appear among the top-K most similar candidates overall. A
// cluster whose own summaries can't retrieve its own members is poorly
// encoded and should be deferred rather than abstracted.
func CheckRecall(cluster []*types.Memory, clusterEmbeddings [][]float32, allEmbeddings [][]float32) RecallGateResult {
	if len(cluster) == 0 || len(clusterEmbeddings) == 0 {
		return RecallGateResult{}
	}

	documents := make([]string, len(cluster))
	for i, m := range cluster {
		documents[i] = m.Summary
	}

	phrases := algorithms.ExtractKeyPhrases(documents, KeyPhraseLimit)
	keyPhrases := make([]string, len(phrases))
	for i, p := range phrases {
		keyPhrases[i] = p.Term
	}

	if len(keyPhrases) == 0 || len(allEmbeddings) == 0 {
		return RecallGateResult{KeyPhrases: keyPhrases}
	}

	centroid := computeCentroid(clusterEmbeddings)

	similarities := make([]scoredIdx, 0, len(allEmbeddings))
	for i, emb := range allEmbeddings {
		sim, err := embedding.CosineSimilarity(centroid, emb)
		if err != nil {
			continue
		}
		similarities = append(similarities, scoredIdx{i, sim})
	}
	sortScoredDesc(similarities)
	if len(similarities) > TopK {
		similarities = similarities[:TopK]
	}

	found := 0
	for _, clusterEmb := range clusterEmbeddings {
		for _, s := range similarities {
			if s.idx >= len(allEmbeddings) {
				continue
			}
			sim, err := embedding.CosineSimilarity(clusterEmb, allEmbeddings[s.idx])
			if err == nil && sim > 0.99 {
				found++
				break
			}
		}
	}

	score := float64(found) / float64(len(cluster))
	return RecallGateResult{
		Passed:     score >= RecallThreshold,
		Score:      score,
		KeyPhrases: keyPhrases,
	}
}

func computeCentroid(embeddings [][]float32) []float32 {
	if len(embeddings) == 0 {
		return nil
	}
	dim := len(embeddings[0])
	centroid := make([]float32, dim)
	for _, emb := range embeddings {
		for i, v := range emb {
			if i < dim {
				centroid[i] += v
			}
		}
	}
	n := float32(len(embeddings))
	for i := range centroid {
		centroid[i] /= n
	}
	return centroid
}

type scoredIdx struct {
	idx int
	sim float64
}

func sortScoredDesc(s []scoredIdx) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].sim > s[j-1].sim; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
