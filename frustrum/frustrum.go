// Package frustrum implements the space-time decomposition geometry: an
// APFrustrum is a box-shaped output region paired with a recursion
// dimension, a side, and a step count. It knows how to compute its own
// input region (expanded along sloped faces), split itself into
// lower-dimensional sub-frustrums tiling a boundary shell, cut itself
// in time, and trim itself when its input would protrude past the
// global domain.
package frustrum

import "github.com/MeKo-Tech/algo-ap/geom"

// APFrustrum represents a sub-problem that will produce values inside
// OutputAABB after Steps time steps, having received inputs from a
// wider box. Faces at (dimensions < RecursionDimension, either side)
// and (RecursionDimension, the side opposite Side) are not sloped —
// inputs come only from the sloped faces.
type APFrustrum struct {
	OutputAABB         geom.AABB
	RecursionDimension int
	Side               geom.Side
	Steps              int
}

// New builds an APFrustrum.
func New(outputAABB geom.AABB, recursionDimension int, side geom.Side, steps int) APFrustrum {
	return APFrustrum{
		OutputAABB:         outputAABB,
		RecursionDimension: recursionDimension,
		Side:               side,
		Steps:              steps,
	}
}

// innerIndex/outerIndex pick which bounds column (0=min, 1=max) is the
// "outer" (global-boundary-facing) one for a side: for Side.Min the
// outer face is the min column, for Side.Max it is the max column.
func outerIndex(side geom.Side) int {
	if side == geom.SideMin {
		return 0
	}

	return 1
}

func innerIndex(side geom.Side) int {
	return 1 - outerIndex(side)
}

// outerCoef/innerCoef give the signed direction pointing from a side's
// outer/inner face into the box: for a Min-side frustrum the outer
// (min) face points inward in the +1 direction and the inner (max)
// face in the -1 direction; for a Max-side frustrum the signs flip.
func outerCoef(side geom.Side) int {
	if side == geom.SideMin {
		return 1
	}

	return -1
}

func innerCoef(side geom.Side) int {
	return -outerCoef(side)
}

// SlopedSides returns a dim×2 mask where an entry is 1 iff the
// corresponding face contributes to input expansion: along
// RecursionDimension only the inner face (the one facing the already
// solved interior) is sloped; for dimensions before RecursionDimension
// (already walled off by an earlier peel) both sides are sloped; for
// dimensions after it (not yet peeled, still inside the undivided
// remainder slab) neither side is sloped.
func (f APFrustrum) SlopedSides() geom.Bounds {
	dim := f.OutputAABB.Dim()

	var result geom.Bounds
	for d := 0; d < dim; d++ {
		result[d][0] = 1
		result[d][1] = 1
	}

	result[f.RecursionDimension][outerIndex(f.Side)] = 0

	for d := f.RecursionDimension + 1; d < dim; d++ {
		result[d][0] = 0
		result[d][1] = 0
	}

	return result
}

// InputAABB computes the input region needed to produce OutputAABB
// after Steps applications of a stencil with the given per-dimension
// slopes: element-wise multiply SlopedSides by stencil slopes, negate
// the min column so the box grows outward, multiply by Steps, and add
// to OutputAABB.
func (f APFrustrum) InputAABB(stencilSlopes geom.Bounds) geom.AABB {
	sloped := f.SlopedSides()

	var diff geom.Bounds

	dim := f.OutputAABB.Dim()
	for d := 0; d < dim; d++ {
		diff[d][0] = -sloped[d][0] * stencilSlopes[d][0] * f.Steps
		diff[d][1] = sloped[d][1] * stencilSlopes[d][1] * f.Steps
	}

	return f.OutputAABB.AddBoundsDiff(diff)
}

// TimeCut splits a Steps-frustrum into a head of CutSteps and a tail of
// Steps-CutSteps. The tail's output is the head's original output_aabb;
// the head's output becomes the tail's input_aabb (the spatial handoff
// plane). f is mutated in place to become the head; the tail is
// returned. Returns false when cutSteps >= f.Steps (no cut).
func (f *APFrustrum) TimeCut(cutSteps int, stencilSlopes geom.Bounds) (tail APFrustrum, cut bool) {
	if cutSteps >= f.Steps {
		return APFrustrum{}, false
	}

	remaining := f.Steps - cutSteps
	tail = New(f.OutputAABB, f.RecursionDimension, f.Side, remaining)

	f.OutputAABB = tail.InputAABB(stencilSlopes)
	f.Steps = cutSteps

	return tail, true
}

// Decompose produces one frustrum per "wall" of the boundary region
// around the already-solved interior: a frustrum of thickness Steps-1
// hugging the outer face in RecursionDimension, then for each later
// dimension, two side-frustrums of thickness Steps-1 splitting the
// remaining slab. The result tiles the boundary region of OutputAABB
// exactly once.
func (f APFrustrum) Decompose() []APFrustrum {
	dim := f.OutputAABB.Dim()
	iSteps := f.Steps - 1

	result := make([]APFrustrum, 0, 2*(dim-f.RecursionDimension)-1)

	outer := f.OutputAABB
	outerBoundsVal := f.OutputAABB.Bounds()[f.RecursionDimension][outerIndex(f.Side)]
	bounds := outer.Bounds()
	bounds[f.RecursionDimension][innerIndex(f.Side)] = outerBoundsVal + outerCoef(f.Side)*iSteps
	result = append(result, New(geom.NewAABBFromBounds(dim, bounds), f.RecursionDimension, f.Side, f.Steps))

	remainder := f.OutputAABB.Bounds()
	remainder[f.RecursionDimension][outerIndex(f.Side)] += outerCoef(f.Side) * f.Steps

	for d := f.RecursionDimension + 1; d < dim; d++ {
		minBounds := remainder
		minBounds[d][1] = remainder[d][0] + iSteps
		result = append(result, New(geom.NewAABBFromBounds(dim, minBounds), d, geom.SideMin, f.Steps))

		maxBounds := remainder
		maxBounds[d][0] = remainder[d][1] - iSteps
		result = append(result, New(geom.NewAABBFromBounds(dim, maxBounds), d, geom.SideMax, f.Steps))

		remainder[d][0] += f.Steps
		remainder[d][1] -= f.Steps
	}

	return result
}

// OutOfBoundsCut reports whether f's InputAABB protrudes outside
// globalAABB; if so, it marks the offending faces as unsloped,
// decrements Steps, and returns the trimmed sloped-sides mask (used by
// the planner to convert a DirectSolve into an AOBDirectSolve). f is
// mutated in place. Returns ok=false (no mutation) when the input is
// already within bounds.
func (f *APFrustrum) OutOfBoundsCut(stencilSlopes geom.Bounds, globalAABB geom.AABB) (remainderSlopes geom.Bounds, ok bool) {
	input := f.InputAABB(stencilSlopes)
	dim := f.OutputAABB.Dim()

	remainderSlopes = f.SlopedSides()

	outOfBounds := false

	for d := 0; d < dim; d++ {
		if input.MinAt(d) < globalAABB.MinAt(d) {
			remainderSlopes[d][0] = 0
			outOfBounds = true
		}

		if input.MaxAt(d) > globalAABB.MaxAt(d) {
			remainderSlopes[d][1] = 0
			outOfBounds = true
		}
	}

	if !outOfBounds {
		return geom.Bounds{}, false
	}

	f.Steps--

	return remainderSlopes, true
}

// PeriodicSolveOutput returns the AABB a periodic solve produces given
// this frustrum's output region: as elsewhere in this package, that is
// just the frustrum's declared OutputAABB — callers that need the
// *shrunk* interior after k periodic steps should instead shrink
// InputAABB by k*stencilSlopes directly (see planner.shrinkAABB).
func (f APFrustrum) PeriodicSolveOutput() geom.AABB {
	return f.OutputAABB
}
