package cluster

import (
	"math/rand/v2"
)

// kmeans partitions rows into k non-empty groups. It requires 1 <= k <= len(rows).
type kmeans struct {
	k       int
	dim     int
	maxIter int
	rng     *rand.Rand
}

func newKMeans(k, dim, maxIter int, seed uint64) *kmeans {
	return &kmeans{
		k:       k,
		dim:     dim,
		maxIter: maxIter,
		rng:     rand.New(rand.NewPCG(seed, 0)),
	}
}

// fit returns the cluster label of every row.
func (m *kmeans) fit(rows []sparseVector) []int {
	centroids := m.seed(rows)
	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < m.maxIter; iter++ {
		changed := m.assign(rows, centroids, labels)
		reseeded := m.update(rows, centroids, labels)
		if !changed && !reseeded {
			break
		}
	}
	return labels
}

// seed picks initial centroids with k-means++.
func (m *kmeans) seed(rows []sparseVector) [][]float64 {
	n := len(rows)
	chosen := make([]bool, n)
	centroids := make([][]float64, 0, m.k)

	first := m.rng.IntN(n)
	chosen[first] = true
	centroids = append(centroids, m.dense(rows[first]))

	nearest := make([]float64, n)
	for i := range rows {
		nearest[i] = distance(rows[i], centroids[0])
	}

	for len(centroids) < m.k {
		var total float64
		for i, d := range nearest {
			if !chosen[i] {
				total += d
			}
		}

		next := -1
		if total <= 0 {
			for i := range rows {
				if !chosen[i] {
					next = i
					break
				}
			}
		} else {
			target := m.rng.Float64() * total
			var acc float64
			for i, d := range nearest {
				if chosen[i] || d == 0 {
					continue
				}
				acc += d
				next = i
				if acc >= target {
					break
				}
			}
		}

		chosen[next] = true
		center := m.dense(rows[next])
		centroids = append(centroids, center)
		for i := range rows {
			if d := distance(rows[i], center); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centroids
}

// assign moves every row to its nearest centroid, ties to the lowest index.
func (m *kmeans) assign(rows []sparseVector, centroids [][]float64, labels []int) bool {
	changed := false
	for i, row := range rows {
		best, bestDist := 0, distance(row, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := distance(row, centroids[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes centroids as member means. An empty cluster takes the
// row farthest from its own centroid among clusters with more than one member.
func (m *kmeans) update(rows []sparseVector, centroids [][]float64, labels []int) bool {
	sizes := make([]int, m.k)
	for c := range centroids {
		clear(centroids[c])
	}
	for i, row := range rows {
		c := labels[i]
		sizes[c]++
		for j, idx := range row.indices {
			centroids[c][idx] += row.values[j]
		}
	}
	for c, size := range sizes {
		if size == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] /= float64(size)
		}
	}

	reseeded := false
	for c, size := range sizes {
		if size > 0 {
			continue
		}
		donor, farthest := -1, -1.0
		for i, row := range rows {
			if sizes[labels[i]] < 2 {
				continue
			}
			if d := distance(row, centroids[labels[i]]); d > farthest {
				donor, farthest = i, d
			}
		}
		if donor < 0 {
			continue
		}
		sizes[labels[donor]]--
		labels[donor] = c
		sizes[c] = 1
		centroids[c] = m.dense(rows[donor])
		reseeded = true
	}
	return reseeded
}

func (m *kmeans) dense(row sparseVector) []float64 {
	out := make([]float64, m.dim)
	for j, idx := range row.indices {
		out[idx] = row.values[j]
	}
	return out
}

// distance is the squared Euclidean distance between a sparse row and a dense centroid.
func distance(row sparseVector, centroid []float64) float64 {
	var sum float64
	for _, v := range centroid {
		sum += v * v
	}
	for j, idx := range row.indices {
		x := row.values[j]
		c := centroid[idx]
		sum += x*x - 2*x*c
	}
	if sum < 0 {
		return 0
	}
	return sum
}
