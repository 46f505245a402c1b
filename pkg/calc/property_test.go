package calc

import (
	"context"
	"math"
	"math/big"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/mathcalc/pkg/numparse"
)

// trialDivision is the textbook primality check the evaluators must agree with.
func trialDivision(n int64) bool {
	if n < 2 {
		return false
	}
	for d := int64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestIsPrime_MatchesTrialDivision(t *testing.T) {
	ctx := context.Background()
	check := func(lo, hi int64) {
		for n := lo; n <= hi; n++ {
			got, err := IsPrime(ctx, big.NewInt(n))
			require.NoError(t, err)
			assert.Equal(t, trialDivision(n), got, "IsPrime(%d)", n)
		}
	}
	check(-10, 5000)
	check(1_000_000, 1_001_000)
	check(1<<31-200, 1<<31+200)
}

func TestNextPrime_IsTheFollowingPrime(t *testing.T) {
	ctx := context.Background()
	for n := int64(-5); n <= 3000; n++ {
		next, err := NextPrime(ctx, big.NewInt(n))
		require.NoError(t, err)
		p := next.Int64()

		assert.Greater(t, p, n, "NextPrime(%d)", n)
		assert.True(t, trialDivision(p), "NextPrime(%d) = %d", n, p)
		for m := n + 1; m < p; m++ {
			assert.False(t, trialDivision(m), "prime %d between %d and NextPrime = %d", m, n, p)
		}
	}
}

func TestPrevPrime_IsThePrecedingPrime(t *testing.T) {
	ctx := context.Background()
	for n := int64(-5); n <= 3000; n++ {
		prev, err := PrevPrime(ctx, big.NewInt(n))
		require.NoError(t, err)
		if n <= 2 {
			assert.Nil(t, prev, "PrevPrime(%d)", n)
			continue
		}
		require.NotNil(t, prev, "PrevPrime(%d)", n)
		p := prev.Int64()

		assert.Less(t, p, n)
		assert.True(t, trialDivision(p), "PrevPrime(%d) = %d", n, p)
		for m := p + 1; m < n; m++ {
			assert.False(t, trialDivision(m), "prime %d between PrevPrime = %d and %d", m, p, n)
		}
	}
}

func TestPrimesInRange_AtDefaultThreshold(t *testing.T) {
	ctx := context.Background()
	opts := DefaultOptions()
	all := Sieve(4_000_100)

	within := func(lo, hi int64) []int64 {
		out := []int64{}
		for _, p := range all {
			if p >= lo && p <= hi {
				out = append(out, p)
			}
		}
		return out
	}

	tests := []struct {
		lo, hi int64
		method string
	}{
		{1_999_000, 2_000_000, MethodSieve},
		{1_999_000, 2_001_000, MethodSegmented},
		{2_000_001, 2_000_001, MethodSegmented},
		{1_000_000, 3_000_001, MethodChunked},
		{0, 4_000_100, MethodChunked},
	}
	for _, tt := range tests {
		r, err := PrimesInRange(ctx, tt.lo, tt.hi, opts)
		require.NoError(t, err)
		assert.Equal(t, tt.method, r.Method, "[%d, %d]", tt.lo, tt.hi)
		assert.Equal(t, within(tt.lo, tt.hi), r.Primes, "[%d, %d]", tt.lo, tt.hi)
		for i := 1; i < len(r.Primes); i++ {
			require.Less(t, r.Primes[i-1], r.Primes[i])
		}
	}

	// π(2·10⁶) and π(4·10⁶)
	assert.Len(t, within(0, 2_000_000), 148_933)
	assert.Len(t, within(0, 4_000_000), 283_146)
	for _, p := range all[:200] {
		assert.True(t, trialDivision(p))
	}
}

var sweep = []float64{-7, -3, -1, 0, 1, 2.5, 6}

// residualTol bounds |p(r)| relative to the size of the terms being summed.
const residualTol = 1e-9

func TestQuadratic_RootsSatisfyEquation(t *testing.T) {
	for _, a := range []float64{-2, -1, 0.5, 1, 3} {
		for _, b := range sweep {
			for _, c := range sweep {
				r := Quadratic(a, b, c)
				d := b*b - 4*a*c

				switch {
				case d > 0:
					assert.Equal(t, TwoReal, r.Kind)
					require.Len(t, r.Roots, 2)
				case d == 0:
					assert.Equal(t, DoubleRoot, r.Kind)
					require.Len(t, r.Roots, 1)
				default:
					assert.Equal(t, ComplexPair, r.Kind)
					assert.Empty(t, r.Roots)
					re, _ := r.Re.Float64()
					im, _ := r.Im.Float64()
					z := complex(re, im)
					v := complex(a, 0)*z*z + complex(b, 0)*z + complex(c, 0)
					scale := math.Abs(a)*cmplx.Abs(z)*cmplx.Abs(z) + math.Abs(b)*cmplx.Abs(z) + math.Abs(c) + 1
					assert.LessOrEqual(t, cmplx.Abs(v), residualTol*scale, "a=%v b=%v c=%v", a, b, c)
				}

				for _, root := range r.Roots {
					x, ok := root.Float64()
					require.True(t, ok)
					scale := math.Abs(a)*x*x + math.Abs(b)*math.Abs(x) + math.Abs(c) + 1
					assert.LessOrEqual(t, math.Abs(a*x*x+b*x+c), residualTol*scale, "a=%v b=%v c=%v root %v", a, b, c, x)
				}
			}
		}
	}
}

func TestCubic_RootsSatisfyEquation(t *testing.T) {
	opts := DefaultOptions()
	for _, a := range []float64{-2, -1, 0.5, 1, 3} {
		for _, b := range sweep {
			for _, c := range sweep {
				for _, d := range sweep {
					r := Cubic(a, b, c, d, opts)

					disc, _ := r.Discriminant.Float64()
					switch {
					case math.Abs(disc) < opts.CubicZeroTolerance:
						assert.Equal(t, RepeatedReal, r.Kind)
						assert.Len(t, r.Roots, 2)
					case disc > 0:
						assert.Equal(t, OneReal, r.Kind)
						assert.Len(t, r.Roots, 1)
					default:
						assert.Equal(t, ThreeDistinct, r.Kind)
						assert.Len(t, r.Roots, 3)
					}

					for _, root := range r.Roots {
						x, ok := root.Float64()
						require.True(t, ok)
						scale := math.Abs(a)*math.Abs(x*x*x) + math.Abs(b)*x*x + math.Abs(c)*math.Abs(x) + math.Abs(d) + 1
						assert.LessOrEqual(t, math.Abs(r.Eval(x)), residualTol*scale,
							"a=%v b=%v c=%v d=%v root %v", a, b, c, d, x)
					}
				}
			}
		}
	}
}

func TestCubic_KnownRoots(t *testing.T) {
	opts := DefaultOptions()
	for r1 := -4.0; r1 <= 4; r1++ {
		for r2 := r1 + 1; r2 <= 4; r2++ {
			for r3 := r2 + 1; r3 <= 4; r3++ {
				a := -2.0
				r := Cubic(a, -a*(r1+r2+r3), a*(r1*r2+r1*r3+r2*r3), -a*r1*r2*r3, opts)
				require.Equal(t, ThreeDistinct, r.Kind, "roots %v %v %v", r1, r2, r3)
				for i, want := range []float64{r1, r2, r3} {
					got, _ := r.Roots[i].Float64()
					assert.InDelta(t, want, got, 1e-9)
				}
			}
		}
	}

	// (x - r)(x² + m) has a single real root
	for m := 1.0; m <= 4; m++ {
		for root := -3.0; root <= 3; root++ {
			r := Cubic(1, -root, m, -root*m, opts)
			require.Equal(t, OneReal, r.Kind)
			got, _ := r.Roots[0].Float64()
			assert.InDelta(t, root, got, 1e-9)
		}
	}
}

// invPow returns base^-exp as a decimal.
func invPow(base, exp int) decimal.Decimal {
	d := decimal.NewFromInt(1)
	b := decimal.NewFromInt(int64(base))
	for i := 0; i < exp; i++ {
		d = d.Mul(b)
	}
	return decimal.NewFromInt(1).DivRound(d, 60)
}

func TestConvertBase_RoundTripEveryBasePair(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	half := decimal.NewFromFloat(0.5)
	slack := decimal.New(1, -35)

	for from := numparse.MinBase; from <= numparse.MaxBase; from++ {
		for to := numparse.MinBase; to <= numparse.MaxBase; to++ {
			// each rendering rounds to 16 digits of its base
			tol := invPow(to, MaxFractionDigits).Add(invPow(from, MaxFractionDigits)).Mul(half).Add(slack)

			for i := 0; i < 4; i++ {
				k := rng.Intn(7)
				den := int64(1)
				for j := 0; j < k; j++ {
					den *= int64(from)
				}
				v := numparse.Numeral{
					Int: decimal.NewFromInt(rng.Int63n(1_000_000_000)),
					Num: decimal.NewFromInt(rng.Int63n(den)),
					Den: decimal.NewFromInt(den),
				}
				v.Neg = rng.Intn(3) == 0 && !v.IsZero()
				s := ToBase(v, from, MaxFractionDigits)

				r, err := ConvertBase(s, from, to)
				require.NoError(t, err, "%s %d→%d", s, from, to)

				if from == to {
					assert.Equal(t, s, r.Converted, "same base %d", from)
					assert.Equal(t, s, r.RoundTrip, "same base %d", from)
				}

				back, err := numparse.Digits(r.RoundTrip, from)
				require.NoError(t, err)
				diff := back.Decimal().Sub(v.Decimal()).Abs()
				assert.True(t, diff.LessThanOrEqual(tol),
					"%s base %d → %s base %d → %s: off by %s", s, from, r.Converted, to, r.RoundTrip, diff)
			}
		}
	}
}
