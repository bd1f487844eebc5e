package recommend

import "sort"

// meanSimilarities scores each document by its mean cosine similarity
// against the whole candidate set, itself included. Documents central to
// the set score highest.
func meanSimilarities(vectors []map[string]float64) []float64 {
	n := len(vectors)
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	for i := range vectors {
		var sum float64
		for j := range vectors {
			if i == j {
				sum += 1 // unit vectors
				continue
			}
			sum += cosine(vectors[i], vectors[j])
		}
		scores[i] = sum / float64(n)
	}
	return scores
}

// topIndices returns the indices of the k highest scores in descending
// order. Equal scores keep their original relative order, so identical
// inputs always produce identical rankings.
func topIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}
