package summarizer

import "math"

// Scorer weighs each sentence by the TF-IDF mass of its terms, treating
// every sentence as a document of its own.
type Scorer struct {
	// Normalize scales each sentence's term weights to unit L2 length before
	// summing.
	Normalize bool
}

// Score returns one score per entry of sentenceTerms. Terms are expected to
// be stopword-filtered already.
func (s Scorer) Score(sentenceTerms [][]string) []float64 {
	scores := make([]float64, len(sentenceTerms))
	if len(sentenceTerms) == 0 {
		return scores
	}

	// Document frequencies
	df := make(map[string]int)
	for _, terms := range sentenceTerms {
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(sentenceTerms))
	idf := func(term string) float64 {
		if len(sentenceTerms) <= 1 {
			return 1
		}
		// Smoothed IDF, zero for a term present in every sentence
		return math.Log((1 + n) / (1 + float64(df[term])))
	}

	for i, terms := range sentenceTerms {
		order, counts := termCounts(terms)
		weights := make([]float64, len(order))
		for j, t := range order {
			weights[j] = float64(counts[t]) * idf(t)
		}
		if s.Normalize {
			l2Normalize(weights)
		}
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		scores[i] = sum
	}
	return scores
}

// termCounts returns distinct terms in first-occurrence order and their raw counts.
func termCounts(terms []string) ([]string, map[string]int) {
	counts := make(map[string]int, len(terms))
	order := make([]string, 0, len(terms))
	for _, t := range terms {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	return order, counts
}

func l2Normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
}
