package cluster

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// sparseVector is an L2-normalized TF-IDF row.
type sparseVector struct {
	indices []int
	values  []float64
}

func tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// vectorize fits a TF-IDF model over docs and returns one row per document
// plus the vocabulary size. Only the maxFeatures most frequent terms are kept.
func vectorize(docs []string, maxFeatures int) ([]sparseVector, int) {
	tokenized := make([][]string, len(docs))
	corpusCount := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		for _, tok := range tokenized[i] {
			corpusCount[tok]++
		}
	}

	terms := make([]string, 0, len(corpusCount))
	for term := range corpusCount {
		terms = append(terms, term)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusCount[terms[i]] != corpusCount[terms[j]] {
				return corpusCount[terms[i]] > corpusCount[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}

	counts := make([]map[int]float64, len(docs))
	df := make([]int, len(terms))
	for i, tokens := range tokenized {
		tf := make(map[int]float64)
		for _, tok := range tokens {
			if idx, ok := vocab[tok]; ok {
				tf[idx]++
			}
		}
		for idx := range tf {
			df[idx]++
		}
		counts[i] = tf
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	rows := make([]sparseVector, len(docs))
	for i, tf := range counts {
		indices := make([]int, 0, len(tf))
		for idx := range tf {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		values := make([]float64, len(indices))
		var norm float64
		for j, idx := range indices {
			values[j] = tf[idx] * idf[idx]
			norm += values[j] * values[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range values {
				values[j] /= norm
			}
		}
		rows[i] = sparseVector{indices: indices, values: values}
	}
	return rows, len(terms)
}
