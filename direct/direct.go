// Package direct implements the direct frustrum solver: cell-by-cell
// stencil application over a shrinking trapezoidal region, consulting
// a boundary-condition oracle for any read that lands outside the
// available input region.
package direct

import (
	"fmt"

	"github.com/MeKo-Tech/algo-ap/aperr"
	"github.com/MeKo-Tech/algo-ap/bc"
	"github.com/MeKo-Tech/algo-ap/domain"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/parallelutil"
	"github.com/MeKo-Tech/algo-ap/stencil"
)

// InputRegion computes the input AABB a trapezoidal solve of steps
// applications needs to produce outputBox, given which sides are
// sloped and the stencil's per-dimension slopes: the sloped-and-scaled
// slopes are negated on the min column (so the box grows outward) and
// multiplied by steps.
func InputRegion(steps int, outputBox geom.AABB, slopedSides, stencilSlopes geom.Bounds) geom.AABB {
	dim := outputBox.Dim()

	var diff geom.Bounds
	for d := 0; d < dim; d++ {
		diff[d][0] = -slopedSides[d][0] * stencilSlopes[d][0] * steps
		diff[d][1] = slopedSides[d][1] * stencilSlopes[d][1] * steps
	}

	return outputBox.AddBoundsDiff(diff)
}

// Apply runs a plain direct solve: in and out must share the same
// AABB on entry (the frustrum's InputAABB). Over steps iterations, the
// output region shrinks by slopedSides×stencil slopes on each sloped
// face; out-of-bounds reads (beyond in's own AABB) are answered by
// oracle. Returns the domains holding (possibly swapped) input/output
// roles after the solve — the second return value holds the final
// result, with its AABB equal to the frustrum's declared output_aabb.
func Apply(
	oracle bc.Oracle,
	st stencil.Stencil,
	in, out *domain.SliceDomain,
	slopedSides geom.Bounds,
	steps int,
	workers int,
) (*domain.SliceDomain, *domain.SliceDomain, error) {
	return applyWithReadLimit(oracle, st, in, out, in.AABB(), slopedSides, steps, workers)
}

// ApplyAOB runs the "almost out of bounds" variant: readLimit is a
// tighter region than in.AABB() (the global domain, typically), so
// reads that fall inside in's buffer but outside readLimit are still
// routed to oracle rather than read directly. This handles a
// frustrum whose input would otherwise protrude past the global
// domain.
func ApplyAOB(
	oracle bc.Oracle,
	st stencil.Stencil,
	in, out *domain.SliceDomain,
	readLimit geom.AABB,
	slopedSides geom.Bounds,
	steps int,
	workers int,
) (*domain.SliceDomain, *domain.SliceDomain, error) {
	return applyWithReadLimit(oracle, st, in, out, readLimit, slopedSides, steps, workers)
}

func applyWithReadLimit(
	oracle bc.Oracle,
	st stencil.Stencil,
	in, out *domain.SliceDomain,
	readLimit geom.AABB,
	slopedSides geom.Bounds,
	steps int,
	workers int,
) (*domain.SliceDomain, *domain.SliceDomain, error) {
	if !in.AABB().Equal(out.AABB()) {
		panic("direct: in and out must share the same AABB on entry")
	}

	dim := in.AABB().Dim()
	stencilSlopes := st.Slopes()

	var shrink geom.Bounds
	for d := 0; d < dim; d++ {
		shrink[d][0] = stencilSlopes[d][0] * slopedSides[d][0]
		shrink[d][1] = -stencilSlopes[d][1] * slopedSides[d][1]
	}

	curIn, curOut := in, out
	outputBox := in.AABB()

	for t := 0; t < steps; t++ {
		outputBox = outputBox.AddBoundsDiff(shrink)
		curOut.SetAABB(outputBox)

		if err := applyChunk(oracle, st, curIn, readLimit, curOut, dim, workers); err != nil {
			return curIn, curOut, err
		}

		curIn, curOut = curOut, curIn
	}

	curIn, curOut = curOut, curIn

	return curIn, curOut, nil
}

func applyChunk(
	oracle bc.Oracle,
	st stencil.Stencil,
	in *domain.SliceDomain,
	readLimit geom.AABB,
	out *domain.SliceDomain,
	dim int,
	workers int,
) error {
	outAABB := out.AABB()
	n := outAABB.BufferSize()
	workers = parallelutil.ClampWorkers(workers, n)

	return parallelutil.For(workers, n, func(_, start, end int) error {
		args := make([]float64, len(st.Terms))

		for i := start; i < end; i++ {
			c := outAABB.LinearToCoord(i)

			for ti, term := range st.Terms {
				sample := c.Add(term.Offset, dim)

				if readLimit.Contains(sample) {
					args[ti] = in.At(sample)
					continue
				}

				v, ok := oracle.Check(sample)
				if !ok {
					return fmt.Errorf("direct: %w at %v", aperr.ErrOracleMissing, sample)
				}

				args[ti] = v
			}

			out.Set(c, st.Apply(args))
		}

		return nil
	})
}
