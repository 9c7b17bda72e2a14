package frustrum

import (
	"testing"

	"github.com/MeKo-Tech/algo-ap/geom"
)

func aabb1(min, max int) geom.AABB {
	return geom.NewAABB(1, geom.Coord{min}, geom.Coord{max})
}

func aabb2(minX, maxX, minY, maxY int) geom.AABB {
	return geom.NewAABB(2, geom.Coord{minX, minY}, geom.Coord{maxX, maxY})
}

func TestDecompose_1D(t *testing.T) {
	outer := aabb1(0, 10)

	f1 := New(outer, 0, geom.SideMin, 2)
	d1 := f1.Decompose()

	if len(d1) != 1 {
		t.Fatalf("len = %d, want 1", len(d1))
	}

	want1 := New(aabb1(0, 1), 0, geom.SideMin, 2)
	if !d1[0].OutputAABB.Equal(want1.OutputAABB) {
		t.Errorf("d1[0] = %+v, want %+v", d1[0], want1)
	}

	f2 := New(outer, 0, geom.SideMax, 2)
	d2 := f2.Decompose()

	if len(d2) != 1 {
		t.Fatalf("len = %d, want 1", len(d2))
	}

	want2 := New(aabb1(9, 10), 0, geom.SideMax, 2)
	if !d2[0].OutputAABB.Equal(want2.OutputAABB) {
		t.Errorf("d2[0] = %+v, want %+v", d2[0], want2)
	}
}

func TestDecompose_2D_RecursionDim0(t *testing.T) {
	steps := 20
	outer := aabb2(0, 50, 0, 200)

	f1 := New(outer, 0, geom.SideMin, steps)
	d1 := f1.Decompose()

	if len(d1) != 3 {
		t.Fatalf("len = %d, want 3", len(d1))
	}

	want := []APFrustrum{
		New(aabb2(0, 19, 0, 200), 0, geom.SideMin, steps),
		New(aabb2(20, 50, 0, 19), 1, geom.SideMin, steps),
		New(aabb2(20, 50, 181, 200), 1, geom.SideMax, steps),
	}

	for i, w := range want {
		if !d1[i].OutputAABB.Equal(w.OutputAABB) || d1[i].RecursionDimension != w.RecursionDimension || d1[i].Side != w.Side {
			t.Errorf("d1[%d] = %+v, want %+v", i, d1[i], w)
		}
	}
}

func TestSlopedSides(t *testing.T) {
	outer := aabb2(20, 40, 20, 40)

	tests := []struct {
		name string
		f    APFrustrum
		want geom.Bounds
	}{
		{"recursion0 Min", New(outer, 0, geom.SideMin, 10), geom.Bounds{{0, 1}, {0, 0}}},
		{"recursion0 Max", New(outer, 0, geom.SideMax, 10), geom.Bounds{{1, 0}, {0, 0}}},
		{"recursion1 Min", New(outer, 1, geom.SideMin, 10), geom.Bounds{{1, 1}, {0, 1}}},
		{"recursion1 Max", New(outer, 1, geom.SideMax, 10), geom.Bounds{{1, 1}, {1, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.SlopedSides()
			if got != tt.want {
				t.Errorf("SlopedSides() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeCut_NoOpWhenCutStepsExceedsSteps(t *testing.T) {
	ss := geom.Bounds{{1, 1}, {1, 1}}
	f := New(aabb2(20, 40, 20, 40), 1, geom.SideMax, 10)

	if _, cut := f.TimeCut(10, ss); cut {
		t.Error("TimeCut(10, ...) on a 10-step frustrum should report no cut")
	}

	if _, cut := f.TimeCut(11, ss); cut {
		t.Error("TimeCut(11, ...) on a 10-step frustrum should report no cut")
	}
}

func TestTimeCut_PreservesInput(t *testing.T) {
	ss := geom.Bounds{{1, 1}, {1, 1}}
	f := New(aabb2(20, 40, 20, 40), 1, geom.SideMax, 10)
	originalInput := f.InputAABB(ss)

	tail, cut := f.TimeCut(4, ss)
	if !cut {
		t.Fatal("expected a cut")
	}

	if !f.InputAABB(ss).Equal(originalInput) {
		t.Errorf("head.InputAABB changed after cut: got %v, want %v", f.InputAABB(ss), originalInput)
	}

	if !tail.OutputAABB.Equal(aabb2(20, 40, 20, 40)) {
		t.Errorf("tail.OutputAABB = %v, want original output", tail.OutputAABB)
	}

	if !f.OutputAABB.Equal(tail.InputAABB(ss)) {
		t.Errorf("head.OutputAABB = %v, want tail.InputAABB = %v", f.OutputAABB, tail.InputAABB(ss))
	}
}

func TestOutOfBoundsCut(t *testing.T) {
	global2D := aabb2(0, 199, 0, 199)
	ss2 := geom.Bounds{{1, 1}, {1, 1}}

	interior := New(aabb2(60, 139, 60, 139), 1, geom.SideMin, 1)
	if _, ok := interior.OutOfBoundsCut(ss2, global2D); ok {
		t.Fatal("expected no out-of-bounds cut for a well-interior frustrum")
	}

	// recursion_dim=1 means dimension 0 is already walled off and sloped
	// on both sides; a frustrum hugging dimension 0's edge can protrude.
	near := New(aabb2(0, 5, 190, 199), 1, geom.SideMax, 50)
	if _, ok := near.OutOfBoundsCut(ss2, global2D); !ok {
		t.Error("expected an out-of-bounds cut when input protrudes past global domain")
	}
}
