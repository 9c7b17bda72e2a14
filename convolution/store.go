package convolution

import (
	"fmt"

	"github.com/MeKo-Tech/algo-ap/aperr"
	"github.com/MeKo-Tech/algo-ap/stencil"
	"github.com/MeKo-Tech/algo-ap/wisdom"
)

// Store is a dense registry of precomputed kernels, indexed by a
// convolution id: each periodic plan node carries one such id rather
// than its own kernel, so that nodes sharing a box size and step count
// reuse the same forward/backward plans and spectrum instead of each
// building and discarding its own.
type Store struct {
	kernels []*Kernel
	index   map[storeKey]int
	plan    wisdom.PlanType
	cache   *wisdom.Cache
}

type storeKey struct {
	dim                int
	size               [3]int
	steps              int
	stencilFingerprint string
}

// NewStore builds an empty store. planType governs whether Register
// consults cache before building a new kernel; WisdomOnly requests for
// a size the cache has never seen fail with aperr.ErrFFTPlanFailed
// rather than silently measuring one.
func NewStore(planType wisdom.PlanType, cache *wisdom.Cache) *Store {
	if cache == nil {
		cache = wisdom.NewCache()
	}

	return &Store{
		kernels: nil,
		index:   make(map[storeKey]int),
		plan:    planType,
		cache:   cache,
	}
}

// Register returns the convolution_id for (dim, boxSize, st, steps),
// building and caching a new Kernel the first time this combination is
// seen. Subsequent calls with an equal key return the same id.
func (s *Store) Register(dim int, boxSize [3]int, st stencil.Stencil, steps int) (int, error) {
	key := storeKey{dim: dim, size: boxSize, steps: steps, stencilFingerprint: fingerprint(st)}

	if id, ok := s.index[key]; ok {
		return id, nil
	}

	if s.plan == wisdom.WisdomOnly && !s.cache.Has(boxSize[:dim]) {
		return -1, fmt.Errorf("convolution: box %v: %w", boxSize[:dim], aperr.ErrFFTPlanFailed)
	}

	kernel := NewKernel(dim, boxSize, st, steps)
	s.cache.Remember(boxSize[:dim])

	id := len(s.kernels)
	s.kernels = append(s.kernels, kernel)
	s.index[key] = id

	return id, nil
}

// Get fetches the kernel registered under id.
func (s *Store) Get(id int) (*Kernel, error) {
	if id < 0 || id >= len(s.kernels) {
		return nil, fmt.Errorf("convolution: id %d: %w", id, aperr.ErrFFTPlanFailed)
	}

	return s.kernels[id], nil
}

// Len reports how many distinct kernels have been registered.
func (s *Store) Len() int { return len(s.kernels) }

func fingerprint(st stencil.Stencil) string {
	b := make([]byte, 0, len(st.Terms)*24)

	for _, term := range st.Terms {
		b = fmt.Appendf(b, "%d:%v:%g|", st.Dim, term.Offset[:st.Dim], term.Weight)
	}

	return string(b)
}
