package calc

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// RangeResult lists the primes in [Lo, Hi].
type RangeResult struct {
	Lo     int64   `json:"lo"`
	Hi     int64   `json:"hi"`
	Primes []int64 `json:"primes"`
	// Method names the tier that produced Primes.
	Method string `json:"method"`
}

// Sieve methods.
const (
	MethodEmpty     = "empty"
	MethodSieve     = "sieve"
	MethodSegmented = "segmented"
	MethodChunked   = "chunked"
)

// Sieve returns every prime <= limit.
func Sieve(limit int64) []int64 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var out []int64
	for i := int64(2); i <= limit; i++ {
		if composite[i] {
			continue
		}
		out = append(out, i)
		if i <= limit/i {
			for j := i * i; j <= limit; j += i {
				composite[j] = true
			}
		}
	}
	return out
}

// isqrt returns floor(√n) for n >= 0.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}

// segment sieves [lo, hi] with base primes covering √hi. lo must be >= 2.
func segment(lo, hi int64, base []int64) []int64 {
	if hi < lo {
		return nil
	}
	composite := make([]bool, hi-lo+1)
	for _, p := range base {
		if p > hi/p {
			break
		}
		start := p * p
		if start < lo {
			start = ((lo + p - 1) / p) * p
		}
		for j := start; j <= hi; j += p {
			composite[j-lo] = true
		}
	}
	var out []int64
	for i, c := range composite {
		if !c {
			out = append(out, lo+int64(i))
		}
	}
	return out
}

// PrimesInRange lists the primes in [lo, hi], swapping the bounds when
// lo > hi. Small upper bounds use a plain sieve, narrow windows one
// segmented pass, and wide windows a segmented sieve walked in chunks with
// the context checked between chunks.
func PrimesInRange(ctx context.Context, lo, hi int64, opts Options) (RangeResult, error) {
	opts = opts.normalized()
	if lo > hi {
		lo, hi = hi, lo
	}
	r := RangeResult{Lo: lo, Hi: hi, Primes: []int64{}}

	if hi < 2 {
		r.Method = MethodEmpty
		return r, nil
	}
	from := lo
	if from < 2 {
		from = 2
	}

	if hi <= opts.SieveLimit {
		r.Method = MethodSieve
		for _, p := range Sieve(hi) {
			if p >= from {
				r.Primes = append(r.Primes, p)
			}
		}
		return r, nil
	}

	base := Sieve(isqrt(hi))
	if hi-from+1 <= opts.SieveChunk {
		r.Method = MethodSegmented
		r.Primes = append(r.Primes, segment(from, hi, base)...)
		return r, nil
	}

	r.Method = MethodChunked
	for start := from; start <= hi; start += opts.SieveChunk {
		if err := ctx.Err(); err != nil {
			return RangeResult{}, err
		}
		end := start + opts.SieveChunk - 1
		if end > hi || end < start {
			end = hi
		}
		r.Primes = append(r.Primes, segment(start, end, base)...)
	}
	return r, nil
}

// FirstLastText renders "first / last", or a dash pair when empty.
func (r RangeResult) FirstLastText() string {
	if len(r.Primes) == 0 {
		return Dash + " / " + Dash
	}
	return strconv.FormatInt(r.Primes[0], 10) + " / " + strconv.FormatInt(r.Primes[len(r.Primes)-1], 10)
}

// ListText renders the comma separated list.
func (r RangeResult) ListText() string {
	if len(r.Primes) == 0 {
		return "No primes in range."
	}
	parts := make([]string, len(r.Primes))
	for i, p := range r.Primes {
		parts[i] = strconv.FormatInt(p, 10)
	}
	return strings.Join(parts, ", ")
}

// TracePrimeRange appends the derivation of r to t.
func TracePrimeRange(t *steps.Trace, r RangeResult) {
	t.Addf("Range [%d, %d].", r.Lo, r.Hi)
	switch r.Method {
	case MethodEmpty:
		t.Add("No integer below 2 is prime.")
	case MethodSieve:
		t.Addf("Sieve of Eratosthenes up to %d.", r.Hi)
	case MethodSegmented:
		t.Addf("Segmented sieve over the window using base primes up to √%d.", r.Hi)
	default:
		t.Addf("Segmented sieve in chunks using base primes up to √%d.", r.Hi)
	}
	t.Addf("Found %d primes.", len(r.Primes))
}
