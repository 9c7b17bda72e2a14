package direct

import (
	"github.com/MeKo-Tech/algo-ap/bc"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/parallelutil"
	"github.com/MeKo-Tech/algo-ap/stencil"
)

// NaiveSolve applies st to values over region for steps time steps,
// consulting oracle for any stencil read that lands outside region on
// every single step (rather than growing the read region and shrinking
// the output the way the trapezoidal direct solver does). It exists
// purely as a brute-force reference for tests comparing a planned
// Solver's output to ground truth: the same bc.Oracle can drive both
// the naive reference and the planned solver being checked against it.
func NaiveSolve(oracle bc.Oracle, st stencil.Stencil, region geom.AABB, values []float64, steps, workers int) []float64 {
	n := region.BufferSize()

	cur := make([]float64, n)
	copy(cur, values)

	next := make([]float64, n)

	for t := 0; t < steps; t++ {
		applyOracleChunk(oracle, st, region, cur, next, workers)
		cur, next = next, cur
	}

	return cur
}

func applyOracleChunk(oracle bc.Oracle, st stencil.Stencil, region geom.AABB, in, out []float64, workers int) {
	n := region.BufferSize()
	dim := region.Dim()
	workers = parallelutil.ClampWorkers(workers, n)

	_ = parallelutil.For(workers, n, func(_, start, end int) error {
		args := make([]float64, len(st.Terms))

		for i := start; i < end; i++ {
			c := region.LinearToCoord(i)

			for ti, term := range st.Terms {
				sample := c.Add(term.Offset, dim)

				if region.Contains(sample) {
					args[ti] = in[region.CoordToLinear(sample)]
					continue
				}

				v, _ := oracle.Check(sample)
				args[ti] = v
			}

			out[i] = st.Apply(args)
		}

		return nil
	})
}
