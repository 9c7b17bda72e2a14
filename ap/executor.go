package ap

import (
	"fmt"

	"github.com/MeKo-Tech/algo-ap/bc"
	"github.com/MeKo-Tech/algo-ap/convolution"
	"github.com/MeKo-Tech/algo-ap/dag"
	"github.com/MeKo-Tech/algo-ap/direct"
	"github.com/MeKo-Tech/algo-ap/domain"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/parallelutil"
	"github.com/MeKo-Tech/algo-ap/scratch"
	"github.com/MeKo-Tech/algo-ap/stencil"
	"golang.org/x/sync/errgroup"
)

// Apply drives the plan against in (a domain covering at least the
// solver's global AABB) and oracle, returning a fresh domain holding
// the result after every step the plan covers. Apply allocates its own
// real/complex scratch arenas per call, sized by the Build-time
// scratch.Space, so a single Solver is safe to reuse across
// independent Apply calls.
func (s *Solver) Apply(in *domain.SliceDomain, oracle bc.Oracle) (*domain.SliceDomain, error) {
	e := &executor{
		plan:    s.plan,
		space:   s.space,
		store:   s.store,
		stencil: s.stencil,
		oracle:  oracle,
		workers: parallelutil.EffectiveWorkers(s.opts.Workers),
		real:    make([]float64, s.space.RealSize),
		complex: make([]complex128, s.space.ComplexSize),
	}

	if s.plan.Root == dag.NoNode {
		return in, nil
	}

	return e.execute(s.plan.Root, in)
}

// ApplyFlat is the values-in-values-out convenience form of Apply: it
// pairs values with the solver's global AABB, runs the plan, and
// returns the result's values in the output AABB's linear order along
// with that AABB. values must have at least s.global.BufferSize()
// entries.
func (s *Solver) ApplyFlat(values []float64, oracle bc.Oracle) ([]float64, geom.AABB, error) {
	in := domain.New(s.global, values)

	result, err := s.Apply(in, oracle)
	if err != nil {
		return nil, geom.AABB{}, err
	}

	out := make([]float64, result.AABB().BufferSize())
	copy(out, result.Buffer())

	return out, result.AABB(), nil
}

// executor holds the per-Apply-call mutable state: the shared real
// scratch arena every node's descriptor slices into, the oracle, and
// the fan-out width, driving the scratch package's static layout
// through the actual recursive dispatch over plan node kinds.
type executor struct {
	plan    *dag.Plan
	space   *scratch.Space
	store   *convolution.Store
	stencil stencil.Stencil
	oracle  bc.Oracle
	workers int
	real    []float64

	// complex is sized to scratch.Space.ComplexSize, the budget a
	// convolution kernel's forward/backward FFT pair would need if it
	// wrote into caller-supplied scratch. gonum's fourier.FFT has no
	// such entry point, so Kernel.Apply currently allocates its own
	// transient complex buffers per call instead; complex is kept here
	// so Apply's reported scratch budget stays accurate if that changes.
	complex []complex128
}

// execute dispatches node id against in (a domain the node's own
// InputAABB must be containable within) and returns a domain holding
// the node's result, with its own AABB equal to the node's declared
// OutputAABB.
func (e *executor) execute(id dag.NodeId, in *domain.SliceDomain) (*domain.SliceDomain, error) {
	node := e.plan.Node(id)

	switch node.Kind {
	case dag.KindDirectSolve:
		return e.executeDirect(id, node, in)
	case dag.KindAOBDirectSolve:
		return e.executeAOB(id, node, in)
	case dag.KindPeriodicSolve:
		return e.executePeriodic(id, node, in)
	case dag.KindRepeat:
		return e.executeRepeat(id, node, in)
	default:
		return nil, fmt.Errorf("ap: unknown plan node kind %v", node.Kind)
	}
}

func (e *executor) executeDirect(id dag.NodeId, node *dag.PlanNode, in *domain.SliceDomain) (*domain.SliceDomain, error) {
	n := node.DirectSolve
	desc := e.space.Descriptors[id]

	inBuf := domain.New(n.InputAABB, e.real[desc.InputOffset:desc.InputOffset+desc.InputSize])
	inBuf.CopyFromSuperset(in, e.workers)

	outBuf := domain.New(n.InputAABB, e.real[desc.OutputOffset:desc.OutputOffset+desc.OutputSize])

	_, result, err := direct.Apply(e.oracle, e.stencil, inBuf, outBuf, n.SlopedSides, n.Steps, e.workers)
	if err != nil {
		return nil, fmt.Errorf("ap: direct solve: %w", err)
	}

	return result, nil
}

func (e *executor) executeAOB(id dag.NodeId, node *dag.PlanNode, in *domain.SliceDomain) (*domain.SliceDomain, error) {
	n := node.AOBDirectSolve
	desc := e.space.Descriptors[id]

	inBuf := domain.New(n.InputAABB, e.real[desc.InputOffset:desc.InputOffset+desc.InputSize])
	inBuf.CopyFromSuperset(in, e.workers)

	outBuf := domain.New(n.InputAABB, e.real[desc.OutputOffset:desc.OutputOffset+desc.OutputSize])

	_, result, err := direct.ApplyAOB(e.oracle, e.stencil, inBuf, outBuf, n.InputAABB, n.SlopedSides, n.Steps, e.workers)
	if err != nil {
		return nil, fmt.Errorf("ap: out-of-bounds direct solve: %w", err)
	}

	return result, nil
}

// executePeriodic shrinks the caller's buffer into the node's own
// input scratch, runs the cached convolution kernel into the node's
// output scratch, forks a goroutine per boundary child (each reading
// the still-intact, unconvolved input
// and writing its own disjoint slab of the output), then either hand
// the full output box straight to a TimeCut successor (whose own
// dispatch will subset-copy out of it) or shrink it down to the node's
// declared interior as the final result.
func (e *executor) executePeriodic(id dag.NodeId, node *dag.PlanNode, in *domain.SliceDomain) (*domain.SliceDomain, error) {
	n := node.PeriodicSolve
	desc := e.space.Descriptors[id]

	inBig := domain.New(n.InputAABB, e.real[desc.InputOffset:desc.InputOffset+desc.InputSize])
	inBig.CopyFromSuperset(in, e.workers)

	kernel, err := e.store.Get(n.ConvolutionID)
	if err != nil {
		return nil, fmt.Errorf("ap: periodic solve: %w", err)
	}

	outBig := domain.New(n.InputAABB, e.real[desc.OutputOffset:desc.OutputOffset+desc.OutputSize])
	outBig.SetValues(kernel.Apply(inBig.Buffer(), e.workers))

	var eg errgroup.Group

	for _, childID := range n.BoundaryNodes {
		childID := childID

		eg.Go(func() error {
			childResult, err := e.execute(childID, inBig)
			if err != nil {
				return err
			}

			outBig.SetSubdomain(childResult.AABB(), childResult.Buffer())

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("ap: periodic solve boundary: %w", err)
	}

	// A time-cut successor's own dispatch does its own subset copy out
	// of outBig into its freshly-allocated (never aliased) input
	// buffer, so it can read outBig directly; only the final-result
	// case needs the interior shrunk into a domain of its own here.
	if n.TimeCut != dag.NoNode {
		return e.execute(n.TimeCut, outBig)
	}

	shrunk := domain.New(n.OutputAABB, e.real[desc.InputOffset:desc.InputOffset+n.OutputAABB.BufferSize()])
	shrunk.CopyFromSuperset(outBig, e.workers)

	return shrunk, nil
}

func (e *executor) executeRepeat(id dag.NodeId, node *dag.PlanNode, in *domain.SliceDomain) (*domain.SliceDomain, error) {
	n := node.Repeat

	cur := in

	for i := 0; i < n.N; i++ {
		next, err := e.execute(n.Node, cur)
		if err != nil {
			return nil, fmt.Errorf("ap: repeat iteration %d: %w", i, err)
		}

		cur = next
	}

	if n.Next != dag.NoNode {
		return e.execute(n.Next, cur)
	}

	return cur, nil
}
