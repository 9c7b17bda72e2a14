package domain

import (
	"testing"

	"github.com/MeKo-Tech/algo-ap/geom"
)

func TestSliceDomain_SetAt(t *testing.T) {
	a := geom.NewAABB(2, geom.Coord{0, 0}, geom.Coord{3, 3})
	buf := make([]float64, a.BufferSize())
	d := New(a, buf)

	d.Set(geom.Coord{2, 1}, 7.5)

	if got := d.At(geom.Coord{2, 1}); got != 7.5 {
		t.Errorf("At() = %v, want 7.5", got)
	}
}

func TestSliceDomain_CopyFromSuperset(t *testing.T) {
	super := geom.NewAABB(1, geom.Coord{0}, geom.Coord{9})
	superBuf := make([]float64, super.BufferSize())

	for i := range superBuf {
		superBuf[i] = float64(i)
	}

	superDomain := New(super, superBuf)

	sub := geom.NewAABB(1, geom.Coord{3}, geom.Coord{6})
	subBuf := make([]float64, sub.BufferSize())
	subDomain := New(sub, subBuf)

	subDomain.CopyFromSuperset(superDomain, 4)

	for _, c := range sub.CoordIter() {
		want := float64(c[0])
		if got := subDomain.At(c); got != want {
			t.Errorf("At(%v) = %v, want %v", c, got, want)
		}
	}
}

func TestSliceDomain_SetSubdomain(t *testing.T) {
	whole := geom.NewAABB(1, geom.Coord{0}, geom.Coord{9})
	buf := make([]float64, whole.BufferSize())
	d := New(whole, buf)

	left := geom.NewAABB(1, geom.Coord{0}, geom.Coord{4})
	right := geom.NewAABB(1, geom.Coord{5}, geom.Coord{9})

	d.SetSubdomain(left, []float64{1, 2, 3, 4, 5})
	d.SetSubdomain(right, []float64{6, 7, 8, 9, 10})

	for i := 0; i < 10; i++ {
		want := float64(i + 1)
		if got := d.At(geom.Coord{i}); got != want {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
}
