package calc

import (
	"context"
	"math/big"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// checkEvery is how many trial divisors are tried between context checks.
const checkEvery = 1 << 15

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// PrimeResult describes an integer n.
type PrimeResult struct {
	N       *big.Int `json:"n"`
	IsPrime bool     `json:"is_prime"`
	// SmallestFactor is the least prime factor of a composite n, nil when n
	// is prime or below 2.
	SmallestFactor *big.Int `json:"smallest_factor"`
	// Prev is the largest prime below n, nil when n <= 2.
	Prev *big.Int `json:"prev"`
	// Next is the smallest prime above n.
	Next    *big.Int   `json:"next"`
	Factors []*big.Int `json:"factors"`
}

// smallestDivisor returns the least divisor of n in [2, √n], or nil when n
// is prime. n must be at least 2.
func smallestDivisor(ctx context.Context, n *big.Int) (*big.Int, error) {
	if n.IsUint64() {
		d, err := smallestDivisorUint(ctx, n.Uint64())
		if err != nil || d == 0 {
			return nil, err
		}
		return new(big.Int).SetUint64(d), nil
	}

	if n.Bit(0) == 0 {
		return big.NewInt(2), nil
	}
	d := big.NewInt(3)
	sq := new(big.Int)
	rem := new(big.Int)
	for i := 0; ; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if sq.Mul(d, d).Cmp(n) > 0 {
			return nil, nil
		}
		if rem.Rem(n, d).Sign() == 0 {
			return d, nil
		}
		d.Add(d, bigTwo)
	}
}

func smallestDivisorUint(ctx context.Context, n uint64) (uint64, error) {
	if n%2 == 0 {
		if n == 2 {
			return 0, nil
		}
		return 2, nil
	}
	i := 0
	for d := uint64(3); d <= n/d; d += 2 {
		if i++; i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if n%d == 0 {
			return d, nil
		}
	}
	return 0, nil
}

// IsPrime reports whether n is prime by trial division.
func IsPrime(ctx context.Context, n *big.Int) (bool, error) {
	if n.Cmp(bigTwo) < 0 {
		return false, nil
	}
	d, err := smallestDivisor(ctx, n)
	if err != nil {
		return false, err
	}
	return d == nil, nil
}

// NextPrime returns the smallest prime strictly greater than n. Only odd
// candidates are tested above 2.
func NextPrime(ctx context.Context, n *big.Int) (*big.Int, error) {
	if n.Cmp(bigTwo) < 0 {
		return big.NewInt(2), nil
	}
	c := new(big.Int).Add(n, bigOne)
	if c.Bit(0) == 0 {
		c.Add(c, bigOne)
	}
	for {
		ok, err := IsPrime(ctx, c)
		if err != nil {
			return nil, err
		}
		if ok {
			return c, nil
		}
		c.Add(c, bigTwo)
	}
}

// PrevPrime returns the largest prime strictly less than n, or nil when
// n <= 2. Only odd candidates are tested above 2.
func PrevPrime(ctx context.Context, n *big.Int) (*big.Int, error) {
	if n.Cmp(bigTwo) <= 0 {
		return nil, nil
	}
	if n.Cmp(big.NewInt(3)) == 0 {
		return big.NewInt(2), nil
	}
	c := new(big.Int).Sub(n, bigOne)
	if c.Bit(0) == 0 {
		c.Sub(c, bigOne)
	}
	for c.Cmp(bigTwo) > 0 {
		ok, err := IsPrime(ctx, c)
		if err != nil {
			return nil, err
		}
		if ok {
			return c, nil
		}
		c.Sub(c, bigTwo)
	}
	return big.NewInt(2), nil
}

// Factorize returns the prime factors of n in ascending order with
// repetition. Values below 2 have none.
func Factorize(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	out := []*big.Int{}
	if n.Cmp(bigTwo) < 0 {
		return out, nil
	}
	m := new(big.Int).Set(n)
	for m.Cmp(bigOne) > 0 {
		d, err := smallestDivisor(ctx, m)
		if err != nil {
			return nil, err
		}
		if d == nil {
			out = append(out, new(big.Int).Set(m))
			break
		}
		out = append(out, d)
		m.Quo(m, d)
	}
	return out, nil
}

// PrimeInfo evaluates the prime tools page for n.
func PrimeInfo(ctx context.Context, n *big.Int) (PrimeResult, error) {
	r := PrimeResult{N: new(big.Int).Set(n)}

	if n.Cmp(bigTwo) >= 0 {
		d, err := smallestDivisor(ctx, n)
		if err != nil {
			return PrimeResult{}, err
		}
		r.IsPrime = d == nil
		r.SmallestFactor = d
	}

	var err error
	if r.Prev, err = PrevPrime(ctx, n); err != nil {
		return PrimeResult{}, err
	}
	if r.Next, err = NextPrime(ctx, n); err != nil {
		return PrimeResult{}, err
	}
	if r.Factors, err = Factorize(ctx, n); err != nil {
		return PrimeResult{}, err
	}
	return r, nil
}

// IsPrimeText renders the primality verdict.
func (r PrimeResult) IsPrimeText() string {
	if r.IsPrime {
		return "Yes"
	}
	return "No"
}

// SmallestText renders the smallest factor: "1" below 2, a dash for primes.
func (r PrimeResult) SmallestText() string {
	switch {
	case r.N.Cmp(bigTwo) < 0:
		return "1"
	case r.SmallestFactor == nil:
		return Dash
	default:
		return r.SmallestFactor.String()
	}
}

// NeighborsText renders "prev / next".
func (r PrimeResult) NeighborsText() string {
	prev := Dash
	if r.Prev != nil {
		prev = r.Prev.String()
	}
	return prev + " / " + r.Next.String()
}

// FactorsText renders the factorization line.
func (r PrimeResult) FactorsText() string {
	if len(r.Factors) == 0 {
		return "No prime factors (n < 2)."
	}
	parts := make([]string, len(r.Factors))
	for i, f := range r.Factors {
		parts[i] = f.String()
	}
	return "Prime factors: " + strings.Join(parts, " · ")
}

// TracePrime appends the derivation of r to t.
func TracePrime(t *steps.Trace, r PrimeResult) {
	switch {
	case r.N.Cmp(bigTwo) < 0:
		t.Addf("%s < 2 is neither prime nor composite.", r.N)
	case r.IsPrime:
		t.Addf("No divisor d with 2 ≤ d ≤ √%s divides %s, so it is prime.", r.N, r.N)
	default:
		t.Addf("%s is divisible by %s, so it is composite.", r.N, r.SmallestFactor)
	}
	t.Add(r.FactorsText())
}
