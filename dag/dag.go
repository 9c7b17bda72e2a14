// Package dag defines the plan DAG: a flat, allocation-free arena of
// plan nodes addressed by integer id. time_cut successors and Repeat's
// next field are id references rather than owning pointers, which
// eliminates ownership cycles and keeps traversal simple.
package dag

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/algo-ap/geom"
)

// NodeId indexes into a Plan's node arena.
type NodeId int

// NoNode is the sentinel for an absent optional node reference.
const NoNode NodeId = -1

// Kind tags which variant a PlanNode holds.
type Kind int

const (
	KindPeriodicSolve Kind = iota
	KindDirectSolve
	KindAOBDirectSolve
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindPeriodicSolve:
		return "PeriodicSolve"
	case KindDirectSolve:
		return "DirectSolve"
	case KindAOBDirectSolve:
		return "AOBDirectSolve"
	case KindRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// PeriodicSolve advances the field k steps on InputAABB via FFT
// convolution, producing OutputAABB, then dispatches BoundaryNodes
// (each a disjoint boundary subtree) and optionally chains into a
// TimeCut successor for any steps the periodic kernel didn't cover.
type PeriodicSolve struct {
	InputAABB     geom.AABB
	OutputAABB    geom.AABB
	Steps         int
	ConvolutionID int
	BoundaryNodes []NodeId
	TimeCut       NodeId // NoNode if absent
}

// DirectSolve applies the stencil cell-by-cell over a shrinking
// trapezoidal region for Steps time steps.
type DirectSolve struct {
	InputAABB   geom.AABB
	OutputAABB  geom.AABB
	SlopedSides geom.Bounds
	Steps       int
}

// AOBDirectSolve ("almost out of bounds") is a DirectSolve whose outer
// faces are clamped to the global domain; InitInputAABB records the
// original, possibly-protruding input region the planner computed
// before clamping, while InputAABB is the trimmed region actually
// available and the only one the executor and scratch layout read.
type AOBDirectSolve struct {
	InitInputAABB geom.AABB
	InputAABB     geom.AABB
	OutputAABB    geom.AABB
	SlopedSides   geom.Bounds
	Steps         int
}

// Repeat applies Node N times then, optionally, Next once more — used
// at the root when total_steps exceeds one periodic kernel's step
// budget.
type Repeat struct {
	Node NodeId
	N    int
	Next NodeId // NoNode if absent
}

// PlanNode is a tagged union over the four node kinds. Exactly one of
// the embedded fields is meaningful, selected by Kind.
type PlanNode struct {
	Kind           Kind
	PeriodicSolve  PeriodicSolve
	DirectSolve    DirectSolve
	AOBDirectSolve AOBDirectSolve
	Repeat         Repeat
}

// Plan is the flat node arena plus the id of the root node.
type Plan struct {
	Nodes []PlanNode
	Root  NodeId
}

// NewPlan creates an empty plan arena.
func NewPlan() *Plan {
	return &Plan{Nodes: nil, Root: NoNode}
}

// AddPeriodicSolve appends a PeriodicSolve node and returns its id.
func (p *Plan) AddPeriodicSolve(n PeriodicSolve) NodeId {
	id := NodeId(len(p.Nodes))
	p.Nodes = append(p.Nodes, PlanNode{Kind: KindPeriodicSolve, PeriodicSolve: n})

	return id
}

// AddDirectSolve appends a DirectSolve node and returns its id.
func (p *Plan) AddDirectSolve(n DirectSolve) NodeId {
	id := NodeId(len(p.Nodes))
	p.Nodes = append(p.Nodes, PlanNode{Kind: KindDirectSolve, DirectSolve: n})

	return id
}

// AddAOBDirectSolve appends an AOBDirectSolve node and returns its id.
func (p *Plan) AddAOBDirectSolve(n AOBDirectSolve) NodeId {
	id := NodeId(len(p.Nodes))
	p.Nodes = append(p.Nodes, PlanNode{Kind: KindAOBDirectSolve, AOBDirectSolve: n})

	return id
}

// AddRepeat appends a Repeat node and returns its id.
func (p *Plan) AddRepeat(n Repeat) NodeId {
	id := NodeId(len(p.Nodes))
	p.Nodes = append(p.Nodes, PlanNode{Kind: KindRepeat, Repeat: n})

	return id
}

// Node returns the node stored at id.
func (p *Plan) Node(id NodeId) *PlanNode {
	return &p.Nodes[id]
}

// ToDOT renders the plan DAG in Graphviz's DOT format for debugging,
// per the library's to_dot_file contract.
func (p *Plan) ToDOT() string {
	var b strings.Builder

	b.WriteString("digraph plan {\n")

	for id, n := range p.Nodes {
		label := nodeLabel(NodeId(id), n)
		fmt.Fprintf(&b, "  n%d [label=%q];\n", id, label)

		switch n.Kind {
		case KindPeriodicSolve:
			for _, child := range n.PeriodicSolve.BoundaryNodes {
				fmt.Fprintf(&b, "  n%d -> n%d [label=\"boundary\"];\n", id, child)
			}

			if n.PeriodicSolve.TimeCut != NoNode {
				fmt.Fprintf(&b, "  n%d -> n%d [label=\"time_cut\"];\n", id, n.PeriodicSolve.TimeCut)
			}
		case KindRepeat:
			fmt.Fprintf(&b, "  n%d -> n%d [label=\"x%d\"];\n", id, n.Repeat.Node, n.Repeat.N)

			if n.Repeat.Next != NoNode {
				fmt.Fprintf(&b, "  n%d -> n%d [label=\"next\"];\n", id, n.Repeat.Next)
			}
		}
	}

	if p.Root != NoNode {
		fmt.Fprintf(&b, "  root -> n%d;\n", p.Root)
	}

	b.WriteString("}\n")

	return b.String()
}

func nodeLabel(id NodeId, n PlanNode) string {
	switch n.Kind {
	case KindPeriodicSolve:
		return fmt.Sprintf("#%d PeriodicSolve steps=%d conv=%d", id, n.PeriodicSolve.Steps, n.PeriodicSolve.ConvolutionID)
	case KindDirectSolve:
		return fmt.Sprintf("#%d DirectSolve steps=%d", id, n.DirectSolve.Steps)
	case KindAOBDirectSolve:
		return fmt.Sprintf("#%d AOBDirectSolve steps=%d", id, n.AOBDirectSolve.Steps)
	case KindRepeat:
		return fmt.Sprintf("#%d Repeat n=%d", id, n.Repeat.N)
	default:
		return fmt.Sprintf("#%d ???", id)
	}
}
