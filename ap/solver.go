// Package ap is the root package: it builds a plan DAG and scratch
// layout for a given domain, stencil, and step count (Build), and
// drives it against caller-supplied data and boundary oracle (Apply).
// Build does the work that only depends on geometry once; Apply can
// then run repeatedly against different data without replanning.
package ap

import (
	"fmt"
	"io"
	"log"

	"github.com/MeKo-Tech/algo-ap/convolution"
	"github.com/MeKo-Tech/algo-ap/dag"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/planner"
	"github.com/MeKo-Tech/algo-ap/scratch"
	"github.com/MeKo-Tech/algo-ap/stencil"
	"github.com/MeKo-Tech/algo-ap/wisdom"
)

// Solver is a reusable plan for advancing a field over a fixed domain
// by a fixed number of steps with a fixed stencil: Build does all the
// work that only depends on geometry (planning, scratch layout,
// convolution kernels), so Apply can be called repeatedly against
// different data without replanning.
type Solver struct {
	plan    *dag.Plan
	space   *scratch.Space
	store   *convolution.Store
	stencil stencil.Stencil
	global  geom.AABB
	opts    Options
}

// Build plans a solve of global for totalSteps time steps of st,
// configured by opts.
func Build(global geom.AABB, st stencil.Stencil, totalSteps int, opts ...Option) (*Solver, error) {
	options := applyOptions(DefaultOptions(), opts)

	cache := wisdom.NewCache()

	if options.WisdomPath != "" {
		loaded, err := wisdom.Load(options.WisdomPath)
		if err != nil {
			return nil, fmt.Errorf("ap: loading wisdom cache: %w", err)
		}

		cache = loaded
	}

	store := convolution.NewStore(options.PlanType, cache)
	plan := dag.NewPlan()

	params := planner.Params{
		StencilSlopes: st.Slopes(),
		Cutoff:        options.Cutoff,
		Ratio:         options.Ratio,
		MaxSteps:      options.MaxSteps,
	}

	pl := planner.New(plan, store, st, global, params)
	pl.Build(global, totalSteps)

	space := scratch.Build(plan)

	if options.WisdomPath != "" {
		if err := cache.Save(options.WisdomPath); err != nil {
			log.Printf("ap: saving wisdom cache to %s: %v", options.WisdomPath, err)
		}
	}

	return &Solver{
		plan:    plan,
		space:   space,
		store:   store,
		stencil: st,
		global:  global,
		opts:    options,
	}, nil
}

// ToDOT renders the plan DAG for debugging, delegating to dag.Plan.
func (s *Solver) ToDOT() string { return s.plan.ToDOT() }

// ScratchSize reports the real and complex arena sizes Apply will
// allocate.
func (s *Solver) ScratchSize() (real, complex int) {
	return s.space.RealSize, s.space.ComplexSize
}

// WriteScratchDescriptors dumps, in plan-node order, the byte ranges
// scratch.Build assigned to every node's input/output/complex buffers.
// Paired with ToDOT when debugging why a plan's arena came out a
// particular size: the node ids line up with the ones ToDOT labels.
func (s *Solver) WriteScratchDescriptors(w io.Writer) error {
	fmt.Fprintf(w, "real=%d complex=%d\n", s.space.RealSize, s.space.ComplexSize)

	for id := range s.plan.Nodes {
		nodeID := dag.NodeId(id)

		desc, ok := s.space.Descriptors[nodeID]
		if !ok {
			continue
		}

		node := s.plan.Node(nodeID)

		_, err := fmt.Fprintf(w, "node %d (%v): in=[%d:%d) out=[%d:%d)",
			nodeID, node.Kind,
			desc.InputOffset, desc.InputOffset+desc.InputSize,
			desc.OutputOffset, desc.OutputOffset+desc.OutputSize,
		)
		if err != nil {
			return fmt.Errorf("ap: writing scratch descriptors: %w", err)
		}

		if desc.ComplexSize > 0 {
			if _, err := fmt.Fprintf(w, " complex=[%d:%d)", desc.ComplexOffset, desc.ComplexOffset+desc.ComplexSize); err != nil {
				return fmt.Errorf("ap: writing scratch descriptors: %w", err)
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("ap: writing scratch descriptors: %w", err)
		}
	}

	return nil
}
