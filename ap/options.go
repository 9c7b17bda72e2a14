package ap

import "github.com/MeKo-Tech/algo-ap/wisdom"

// Options configures a Solver build. Zero-value Options combined with
// DefaultOptions gives sane defaults for a first attempt; every field
// has a With* functional option.
type Options struct {
	// Cutoff: regions below this size in any dimension are never
	// planned as periodic; see planner.Params.Cutoff.
	Cutoff int

	// Ratio: minimum fraction of a region's volume a periodic solve
	// must leave valid; see planner.Params.Ratio.
	Ratio float64

	// MaxSteps caps a single periodic kernel's step count.
	MaxSteps int

	// Workers is the number of goroutines the fine-grained intra-kernel
	// loops (direct solve gathers, FFT line passes) fan out across. 0
	// means use runtime.GOMAXPROCS.
	Workers int

	// PlanType governs the FFT plan library's eagerness; WisdomOnly
	// requires every box size the plan touches to already be present
	// in WisdomPath's cache.
	PlanType wisdom.PlanType

	// WisdomPath, if non-empty, is loaded at Build time and saved back
	// after planning so a later WisdomOnly run can reuse it.
	WisdomPath string
}

// Option mutates an Options value.
type Option func(*Options)

// DefaultOptions returns the Solver's default configuration.
func DefaultOptions() Options {
	return Options{
		Cutoff:     8,
		Ratio:      0.5,
		MaxSteps:   64,
		Workers:    0,
		PlanType:   wisdom.Measure,
		WisdomPath: "",
	}
}

// WithCutoff sets the minimum region size eligible for a periodic
// solve.
func WithCutoff(n int) Option {
	return func(o *Options) { o.Cutoff = n }
}

// WithRatio sets the minimum valid-volume fraction a periodic solve
// must leave.
func WithRatio(r float64) Option {
	return func(o *Options) { o.Ratio = r }
}

// WithMaxSteps caps a single periodic kernel's step count.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithWorkers sets the fine-grained parallelism fan-out.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithPlanType sets the FFT plan library's eagerness.
func WithPlanType(p wisdom.PlanType) Option {
	return func(o *Options) { o.PlanType = p }
}

// WithWisdomPath sets the wisdom cache file to load/save across runs.
func WithWisdomPath(path string) Option {
	return func(o *Options) { o.WisdomPath = path }
}

// applyOptions folds opts onto base in order.
func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}

	return base
}
