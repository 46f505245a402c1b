package calc

// Default tolerances and limits. The two tolerances are empirical and are
// exposed through Options so deployments can tune them.
const (
	DefaultCubicZeroTolerance  = 1e-14
	DefaultExactPowerTolerance = 1e-10
	DefaultSieveLimit          = 2_000_000
	DefaultSieveChunk          = 2_000_000
	DefaultGrowthRate          = 0.05
)

// Options tunes the evaluators.
type Options struct {
	// CubicZeroTolerance is the band around zero inside which the depressed
	// cubic discriminant selects the repeated-root branch.
	CubicZeroTolerance float64

	// ExactPowerTolerance bounds |log_b(x) - round(log_b(x))| for x to be
	// reported as an exact integer power of b.
	ExactPowerTolerance float64

	// SieveLimit is the largest upper bound handled by a plain sieve.
	SieveLimit int64

	// SieveChunk is the window width of the segmented sieve.
	SieveChunk int64

	// GrowthRate is the illustrative growth rate of the power page.
	GrowthRate float64
}

// DefaultOptions returns the stock evaluator options.
func DefaultOptions() Options {
	return Options{
		CubicZeroTolerance:  DefaultCubicZeroTolerance,
		ExactPowerTolerance: DefaultExactPowerTolerance,
		SieveLimit:          DefaultSieveLimit,
		SieveChunk:          DefaultSieveChunk,
		GrowthRate:          DefaultGrowthRate,
	}
}

// normalized fills zero fields with defaults.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.CubicZeroTolerance <= 0 {
		o.CubicZeroTolerance = d.CubicZeroTolerance
	}
	if o.ExactPowerTolerance <= 0 {
		o.ExactPowerTolerance = d.ExactPowerTolerance
	}
	if o.SieveLimit <= 0 {
		o.SieveLimit = d.SieveLimit
	}
	if o.SieveChunk <= 0 {
		o.SieveChunk = d.SieveChunk
	}
	if o.GrowthRate == 0 {
		o.GrowthRate = d.GrowthRate
	}
	return o
}
