package main

import "math/rand/v2"

// randomRows draws num samples of dim values from N(0.5, 1). The offset
// keeps samples away from the zero vector.
func randomRows(seed uint64, num, dim int) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, 1))
	rows := make([][]float64, num)
	for i := range rows {
		rows[i] = make([]float64, dim)
		for j := range rows[i] {
			rows[i][j] = rng.NormFloat64() + 0.5
		}
	}
	return rows
}
