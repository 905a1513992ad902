// Package algorithms holds the text-statistics helpers the consolidation
// pipeline uses to summarize and characterize clusters of memories: TF-IDF
// key phrase extraction and TextRank extractive summarization.
package algorithms

import (
	"math"
	"sort"
	"strings"
)

// KeyPhrase is one TF-IDF scored term.
type KeyPhrase struct {
	Term  string
	Score float64
}

// ExtractKeyPhrases computes TF-IDF scores for terms across documents and
// returns the top `limit` key phrases sorted by score descending.
func ExtractKeyPhrases(documents []string, limit int) []KeyPhrase {
	if len(documents) == 0 {
		return nil
	}

	nDocs := float64(len(documents))
	tokenized := make([][]string, len(documents))
	for i, d := range documents {
		tokenized[i] = tokenize(d)
	}

	// Document frequency: how many documents contain each term.
	df := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]bool)
		for _, term := range tokens {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	tf := make(map[string]int)
	totalTerms := 0
	for _, tokens := range tokenized {
		for _, token := range tokens {
			tf[token]++
			totalTerms++
		}
	}
	if totalTerms == 0 {
		return nil
	}

	scores := make([]KeyPhrase, 0, len(tf))
	for term, count := range tf {
		docFreq, ok := df[term]
		if !ok {
			continue
		}
		termFreq := float64(count) / float64(totalTerms)
		idf := math.Log(nDocs/float64(docFreq)) + 1.0
		scores = append(scores, KeyPhrase{Term: term, Score: termFreq * idf})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Term < scores[j].Term
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		var b strings.Builder
		for _, r := range w {
			if r < 128 && isAlphanumeric(r) {
				b.WriteRune(r)
			}
		}
		term := strings.ToLower(b.String())
		if len(term) > 2 && !isStopWord(term) {
			out = append(out, term)
		}
	}
	return out
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "all": true, "can": true, "had": true, "her": true, "was": true,
	"one": true, "our": true, "out": true, "has": true, "have": true, "been": true,
	"from": true, "this": true, "that": true, "with": true, "they": true, "will": true,
	"each": true, "which": true, "their": true, "said": true, "what": true, "its": true,
	"into": true, "more": true, "other": true,
}

func isStopWord(word string) bool { return stopWords[word] }
