package convolution

import (
	"errors"
	"testing"

	"github.com/MeKo-Tech/algo-ap/aperr"
	"github.com/MeKo-Tech/algo-ap/geom"
	"github.com/MeKo-Tech/algo-ap/stencil"
	"github.com/MeKo-Tech/algo-ap/wisdom"
)

func testStencil() stencil.Stencil {
	return stencil.New(1, []stencil.Term{
		{Offset: geom.Coord{-1}, Weight: 0.25},
		{Offset: geom.Coord{0}, Weight: 0.5},
		{Offset: geom.Coord{1}, Weight: 0.25},
	})
}

func TestStore_RegisterReusesID(t *testing.T) {
	s := NewStore(wisdom.Measure, nil)
	st := testStencil()

	id1, err := s.Register(1, [3]int{16, 0, 0}, st, 3)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	id2, err := s.Register(1, [3]int{16, 0, 0}, st, 3)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if id1 != id2 {
		t.Errorf("Register() gave distinct ids %d, %d for the same key", id1, id2)
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_RegisterDistinguishesSteps(t *testing.T) {
	s := NewStore(wisdom.Measure, nil)
	st := testStencil()

	id1, _ := s.Register(1, [3]int{16, 0, 0}, st, 3)
	id2, _ := s.Register(1, [3]int{16, 0, 0}, st, 4)

	if id1 == id2 {
		t.Error("Register() reused id across different step counts")
	}
}

func TestStore_Get(t *testing.T) {
	s := NewStore(wisdom.Measure, nil)
	st := testStencil()

	id, _ := s.Register(1, [3]int{16, 0, 0}, st, 2)

	k, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if k == nil {
		t.Fatal("Get() returned nil kernel")
	}

	if _, err := s.Get(999); err == nil {
		t.Error("Get() with unknown id should error")
	}
}

func TestStore_WisdomOnlyFailsWithoutCachedSize(t *testing.T) {
	s := NewStore(wisdom.WisdomOnly, wisdom.NewCache())
	st := testStencil()

	_, err := s.Register(1, [3]int{16, 0, 0}, st, 2)
	if !errors.Is(err, aperr.ErrFFTPlanFailed) {
		t.Fatalf("Register() error = %v, want ErrFFTPlanFailed", err)
	}
}

func TestStore_WisdomOnlySucceedsAfterRemember(t *testing.T) {
	cache := wisdom.NewCache()
	cache.Remember([]int{16})

	s := NewStore(wisdom.WisdomOnly, cache)
	st := testStencil()

	if _, err := s.Register(1, [3]int{16, 0, 0}, st, 2); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
}
