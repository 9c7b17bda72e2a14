// Package planner implements the recursive descent that turns an
// input region and a target step count into a plan DAG: periodic
// (FFT) solves over interiors large enough to afford one, with
// trapezoidal direct solves — oracle-consulting where they reach the
// true global boundary — tiling the remaining shell.
package planner

import (
	"log"
	"sort"

	"github.com/MeKo-Tech/algo-ap/convolution"
	"github.com/MeKo-Tech/algo-ap/dag"
	"github.com/MeKo-Tech/algo-ap/frustrum"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/stencil"
)

// Params tunes the planner's periodic-vs-direct heuristics.
type Params struct {
	// StencilSlopes is the stencil's per-dimension, per-side reach.
	StencilSlopes geom.Bounds

	// Cutoff: a region whose smallest dimension falls below this is
	// never planned as a periodic solve, regardless of ratio.
	Cutoff int

	// Ratio: a k-step periodic solve is only accepted if the valid
	// interior left after shrinking every face by k*StencilSlopes has
	// volume >= Ratio * region.Volume().
	Ratio float64

	// MaxSteps caps the step count a single periodic kernel may cover;
	// totals beyond it are wrapped in a Repeat node.
	MaxSteps int
}

// Planner carries the shared state a single planning run threads
// through its recursion: the plan arena being built, the convolution
// kernel registry, the stencil in force, and the global domain that
// bounds every out-of-bounds check.
type Planner struct {
	plan    *dag.Plan
	store   *convolution.Store
	stencil stencil.Stencil
	global  geom.AABB
	params  Params
	logger  *log.Logger
}

// New builds a Planner that appends nodes to plan and registers
// convolution kernels in store. Ambient fallback warnings (cutoff
// forcing a direct-only region, a WisdomOnly miss) go to log.Default()
// by default; use SetLogger to redirect them.
func New(plan *dag.Plan, store *convolution.Store, st stencil.Stencil, global geom.AABB, params Params) *Planner {
	return &Planner{plan: plan, store: store, stencil: st, global: global, params: params, logger: log.Default()}
}

// SetLogger redirects the planner's ambient fallback warnings.
func (pl *Planner) SetLogger(l *log.Logger) {
	if l != nil {
		pl.logger = l
	}
}

// Build plans a full solve of region for steps time steps and sets it
// as the plan's root, returning the root node id.
func (pl *Planner) Build(region geom.AABB, steps int) dag.NodeId {
	root := pl.planFor(region, steps)
	pl.plan.Root = root

	return root
}

// planFor is the entry point for any sub-region/step-count pair,
// called both at the top level and recursively for every boundary
// child a periodic solve spawns.
func (pl *Planner) planFor(region geom.AABB, steps int) dag.NodeId {
	k := pl.chooseK(region, steps)
	if k == 0 {
		return pl.directLeaf(region, steps, allSloped(region.Dim()))
	}

	if k < steps {
		body := pl.buildPeriodicNode(region, k)
		n := steps / k
		remainder := steps % k

		next := dag.NoNode
		if remainder > 0 {
			outAABB := pl.plan.Node(body).PeriodicSolve.OutputAABB
			next = pl.planFor(outAABB, remainder)
		}

		return pl.plan.AddRepeat(dag.Repeat{Node: body, N: n, Next: next})
	}

	return pl.buildPeriodicNode(region, k)
}

// chooseK picks the largest k <= min(MaxSteps, steps) for which
// region, shrunk by k*StencilSlopes on every face, still leaves an
// interior volume at least Ratio * region.Volume(). Returns 0 when no
// k >= 1 qualifies, including when region is already below Cutoff.
func (pl *Planner) chooseK(region geom.AABB, steps int) int {
	if minDimension(region) < pl.params.Cutoff {
		pl.logger.Printf("planner: region %v below cutoff %d, falling back to direct solves",
			region.Bounds(), pl.params.Cutoff)

		return 0
	}

	maxK := pl.params.MaxSteps
	if steps < maxK {
		maxK = steps
	}

	volume := float64(region.Volume())

	for k := maxK; k >= 1; k-- {
		// Skip k values that would shrink some axis past empty:
		// shrinkAABB builds a validated AABB and panics on min > max.
		tooThin := false

		for d := 0; d < region.Dim(); d++ {
			if region.SizeAt(d) <= (pl.params.StencilSlopes[d][0]+pl.params.StencilSlopes[d][1])*k {
				tooThin = true
			}
		}

		if tooThin {
			continue
		}

		interior := shrinkAABB(region, k, pl.params.StencilSlopes)
		if interior.Empty() {
			continue
		}

		if float64(interior.Volume()) >= pl.params.Ratio*volume {
			return k
		}
	}

	return 0
}

// buildPeriodicNode builds a PeriodicSolve node advancing region by
// exactly k steps: it registers the convolution kernel for the
// shrunk interior, tiles region's boundary shell via one top-level
// APFrustrum's Decompose (matching AABB.Decomposition's own peeling
// order), and recurses into each wall.
func (pl *Planner) buildPeriodicNode(region geom.AABB, k int) dag.NodeId {
	interior := shrinkAABB(region, k, pl.params.StencilSlopes)

	convID, err := pl.store.Register(region.Dim(), sizesOf(region), pl.stencil, k)
	if err != nil {
		// Registration only fails under WisdomOnly without a cached
		// size; fall back to a direct solve rather than propagating a
		// planning-time error through every call site.
		pl.logger.Printf("planner: WisdomOnly plan missing for region %v: %v, falling back to direct solve",
			region.Bounds(), err)

		return pl.directLeaf(region, k, allSloped(region.Dim()))
	}

	walls := frustrum.New(region, 0, geom.SideMin, k).Decompose()
	sort.SliceStable(walls, func(i, j int) bool {
		return preferSmallerMaxDimension(walls[i].OutputAABB, walls[j].OutputAABB)
	})

	var boundaryNodes []dag.NodeId

	for _, wall := range walls {
		if wall.OutputAABB.Empty() {
			continue
		}

		if id, ok := pl.planWall(wall); ok {
			boundaryNodes = append(boundaryNodes, id)
		}
	}

	id := pl.plan.AddPeriodicSolve(dag.PeriodicSolve{
		InputAABB:     region,
		OutputAABB:    interior,
		Steps:         k,
		ConvolutionID: convID,
		BoundaryNodes: boundaryNodes,
		TimeCut:       dag.NoNode,
	})

	return id
}

// planWall dispatches one boundary wall frustrum: out-of-bounds faces
// become an AOBDirectSolve; otherwise, a large-enough expanded input
// recurses into a nested planFor, and a too-small one becomes a plain
// DirectSolve using the wall's own (possibly asymmetric) sloped-sides
// mask. Returns ok=false when the wall's step count is trimmed to
// zero and should be omitted entirely.
func (pl *Planner) planWall(wall frustrum.APFrustrum) (dag.NodeId, bool) {
	preCutInput := wall.InputAABB(pl.params.StencilSlopes)

	trimmedSloped, trimmed := wall.OutOfBoundsCut(pl.params.StencilSlopes, pl.global)
	if trimmed {
		if wall.Steps <= 0 {
			return dag.NoNode, false
		}

		clippedInput := clampToGlobal(applySloped(wall.OutputAABB, trimmedSloped, pl.params.StencilSlopes, wall.Steps), pl.global)

		id := pl.plan.AddAOBDirectSolve(dag.AOBDirectSolve{
			InitInputAABB: preCutInput,
			InputAABB:     clippedInput,
			OutputAABB:    wall.OutputAABB,
			SlopedSides:   trimmedSloped,
			Steps:         wall.Steps,
		})

		return id, true
	}

	if minDimension(preCutInput) >= pl.params.Cutoff {
		return pl.planFor(preCutInput, wall.Steps), true
	}

	id := pl.plan.AddDirectSolve(dag.DirectSolve{
		InputAABB:   preCutInput,
		OutputAABB:  wall.OutputAABB,
		SlopedSides: wall.SlopedSides(),
		Steps:       wall.Steps,
	})

	return id, true
}

// directLeaf builds a plain DirectSolve advancing region by steps
// time steps using sloped as the growth mask on every face; callers
// only reach this with a region already known (by construction of the
// recursion above it) to lie inside the global domain.
func (pl *Planner) directLeaf(region geom.AABB, steps int, sloped geom.Bounds) dag.NodeId {
	input := applySloped(region, sloped, pl.params.StencilSlopes, steps)

	if containedIn(input, pl.global) {
		return pl.plan.AddDirectSolve(dag.DirectSolve{
			InputAABB:   input,
			OutputAABB:  region,
			SlopedSides: sloped,
			Steps:       steps,
		})
	}

	return pl.plan.AddAOBDirectSolve(dag.AOBDirectSolve{
		InitInputAABB: input,
		InputAABB:     clampToGlobal(input, pl.global),
		OutputAABB:    region,
		SlopedSides:   sloped,
		Steps:         steps,
	})
}

// preferSmallerMaxDimension is the planner's tie-break comparator for
// equal-volume decomposition choices: the slab with the smaller
// largest-dimension extent sorts first, favoring better cache locality
// in the direct solver's line sweeps.
func preferSmallerMaxDimension(a, b geom.AABB) bool {
	if a.Volume() != b.Volume() {
		return false
	}

	return maxDimension(a) < maxDimension(b)
}

func minDimension(a geom.AABB) int {
	m := a.SizeAt(0)
	for d := 1; d < a.Dim(); d++ {
		if a.SizeAt(d) < m {
			m = a.SizeAt(d)
		}
	}

	return m
}

func maxDimension(a geom.AABB) int {
	m := a.SizeAt(0)
	for d := 1; d < a.Dim(); d++ {
		if a.SizeAt(d) > m {
			m = a.SizeAt(d)
		}
	}

	return m
}

// shrinkAABB grows region inward on every face by k*slopes, the
// inverse of frustrum.APFrustrum.InputAABB's outward growth; used to
// find the interior a k-step periodic solve leaves valid.
func shrinkAABB(region geom.AABB, k int, slopes geom.Bounds) geom.AABB {
	var diff geom.Bounds

	for d := 0; d < region.Dim(); d++ {
		diff[d][0] = slopes[d][0] * k
		diff[d][1] = -slopes[d][1] * k
	}

	return region.AddBoundsDiff(diff)
}

// applySloped grows region outward by k*slopes on the faces sloped
// marks, the same arithmetic as frustrum.APFrustrum.InputAABB but
// taking an explicit sloped-sides mask rather than one derived from a
// recursion dimension/side pair.
func applySloped(region geom.AABB, sloped, slopes geom.Bounds, k int) geom.AABB {
	var diff geom.Bounds

	for d := 0; d < region.Dim(); d++ {
		diff[d][0] = -sloped[d][0] * slopes[d][0] * k
		diff[d][1] = sloped[d][1] * slopes[d][1] * k
	}

	return region.AddBoundsDiff(diff)
}

func allSloped(dim int) geom.Bounds {
	var b geom.Bounds
	for d := 0; d < dim; d++ {
		b[d][0] = 1
		b[d][1] = 1
	}

	return b
}

func sizesOf(a geom.AABB) [3]int {
	var s [3]int
	for d := 0; d < a.Dim(); d++ {
		s[d] = a.SizeAt(d)
	}

	return s
}

func containedIn(inner, outer geom.AABB) bool {
	for d := 0; d < outer.Dim(); d++ {
		if inner.MinAt(d) < outer.MinAt(d) || inner.MaxAt(d) > outer.MaxAt(d) {
			return false
		}
	}

	return true
}

func clampToGlobal(a, global geom.AABB) geom.AABB {
	bounds := a.Bounds()

	for d := 0; d < global.Dim(); d++ {
		if bounds[d][0] < global.MinAt(d) {
			bounds[d][0] = global.MinAt(d)
		}

		if bounds[d][1] > global.MaxAt(d) {
			bounds[d][1] = global.MaxAt(d)
		}
	}

	return geom.NewAABBFromBounds(a.Dim(), bounds)
}
