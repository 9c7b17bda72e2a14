// Package scratch builds the scratch-space layout for a plan DAG: a
// post-order walk that assigns every node a byte (well, element)
// range within one contiguous real arena and one contiguous complex
// arena, sized to the high-water mark rather than the sum of every
// node's buffers, exploiting sibling/cousin reuse wherever two
// subtrees are never live at the same time.
package scratch

import "github.com/MeKo-Tech/algo-ap/dag"

// Descriptor records where one node's buffers live within the shared
// arenas. ComplexOffset/ComplexSize are only meaningful for
// PeriodicSolve nodes (Kind other than KindPeriodicSolve leave them
// zero). A time-cut successor's descriptor is always a fresh
// allocation, never an alias of its predecessor's output: the
// successor's own InputAABB generally has a different coordinate
// linearization than its predecessor's (a proper subset, shrunk
// in-place, not a prefix), so aliasing the same bytes for a
// subset-copy's source and destination would read values the copy
// itself had already overwritten earlier in the same pass.
type Descriptor struct {
	InputOffset   int
	InputSize     int
	OutputOffset  int
	OutputSize    int
	ComplexOffset int
	ComplexSize   int
}

// Space is the result of Build: per-node descriptors plus the total
// arena sizes a caller must allocate.
type Space struct {
	Descriptors map[dag.NodeId]Descriptor
	RealSize    int
	ComplexSize int
}

type builder struct {
	plan *dag.Plan

	realCursor int
	realPeak   int

	complexCursor int
	complexPeak   int

	descriptors map[dag.NodeId]Descriptor
}

func (b *builder) allocReal(n int) int {
	off := b.realCursor
	b.realCursor += n

	if b.realCursor > b.realPeak {
		b.realPeak = b.realCursor
	}

	return off
}

func (b *builder) allocComplex(n int) int {
	off := b.complexCursor
	b.complexCursor += n

	if b.complexCursor > b.complexPeak {
		b.complexPeak = b.complexCursor
	}

	return off
}

// Build assigns scratch ranges for every node reachable from
// plan.Root and returns the resulting Space.
func Build(plan *dag.Plan) *Space {
	b := &builder{plan: plan, descriptors: make(map[dag.NodeId]Descriptor)}

	if plan.Root != dag.NoNode {
		b.visit(plan.Root)
	}

	return &Space{
		Descriptors: b.descriptors,
		RealSize:    b.realPeak,
		ComplexSize: b.complexPeak,
	}
}

// visit lays out id's own buffers and its subtree.
func (b *builder) visit(id dag.NodeId) {
	node := b.plan.Node(id)

	switch node.Kind {
	case dag.KindDirectSolve:
		b.visitLeaf(id, node.DirectSolve.InputAABB.BufferSize())
	case dag.KindAOBDirectSolve:
		b.visitLeaf(id, node.AOBDirectSolve.InputAABB.BufferSize())
	case dag.KindPeriodicSolve:
		b.visitPeriodic(id, node)
	case dag.KindRepeat:
		b.visitRepeat(id, node)
	}
}

func (b *builder) visitLeaf(id dag.NodeId, size int) {
	inOff := b.allocReal(size)
	outOff := b.allocReal(size)

	b.descriptors[id] = Descriptor{
		InputOffset:  inOff,
		InputSize:    size,
		OutputOffset: outOff,
		OutputSize:   size,
	}
}

func (b *builder) visitPeriodic(id dag.NodeId, node *dag.PlanNode) {
	p := node.PeriodicSolve
	size := p.InputAABB.BufferSize()
	complexSize := p.InputAABB.ComplexBufferSize()

	ownStartReal := b.realCursor
	ownStartComplex := b.complexCursor

	inOff := b.allocReal(size)
	outOff := b.allocReal(size)
	complexOff := b.allocComplex(complexSize)

	b.descriptors[id] = Descriptor{
		InputOffset:   inOff,
		InputSize:     size,
		OutputOffset:  outOff,
		OutputSize:    size,
		ComplexOffset: complexOff,
		ComplexSize:   complexSize,
	}

	// Boundary children run concurrently under one fork-join scope, so
	// their subtrees are laid out end-to-end with no reuse between
	// them.
	for _, child := range p.BoundaryNodes {
		b.visit(child)
	}

	if p.TimeCut != dag.NoNode {
		// The time-cut successor runs strictly after the boundary
		// fork-join completes, so it may reuse the bytes the boundary
		// subtrees just used — reset to right after this node's own
		// three buffers, then lay the successor out fresh from there.
		b.realCursor = ownStartReal + 2*size
		b.complexCursor = ownStartComplex + complexSize

		b.visit(p.TimeCut)
	}
}

func (b *builder) visitRepeat(id dag.NodeId, node *dag.PlanNode) {
	r := node.Repeat

	startReal := b.realCursor
	startComplex := b.complexCursor

	b.visit(r.Node)

	if r.Next != dag.NoNode {
		// Repeat's body runs n times via in/out swap, never concurrently
		// with Next, so Next may reuse the same space.
		b.realCursor = startReal
		b.complexCursor = startComplex

		b.visit(r.Next)
	}
}
