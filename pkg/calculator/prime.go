package calculator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// PrimeInput is the prime tools page state.
type PrimeInput struct {
	N string `json:"n"`
}

func DefaultPrimeInput() PrimeInput { return PrimeInput{N: "97"} }

func PrimeInputFromFields(f Fields) PrimeInput {
	return PrimeInput{N: f.Get("n", DefaultPrimeInput().N)}
}

// Prime tests n for primality, finds its prime neighbours and factors it.
// Trial division stops when ctx is done.
func Prime(ctx context.Context, in PrimeInput, _ Options) Page[calc.PrimeResult] {
	n, err := numparse.BigInt(in.N)
	if err != nil {
		return invalid[calc.PrimeResult](err)
	}
	r, err := calc.PrimeInfo(ctx, n)
	if err != nil {
		return failed[calc.PrimeResult](fmt.Errorf("prime search for %s stopped: %w", n, err))
	}

	trace := steps.New()
	calc.TracePrime(trace, r)
	return Page[calc.PrimeResult]{
		Result: &r,
		Display: map[string]string{
			"isPrime":   r.IsPrimeText(),
			"smallest":  r.SmallestText(),
			"neighbors": r.NeighborsText(),
			"factors":   r.FactorsText(),
		},
		Steps: trace,
	}
}

// RangeInput is the prime range page state.
type RangeInput struct {
	Lo string `json:"lo"`
	Hi string `json:"hi"`
}

func DefaultRangeInput() RangeInput { return RangeInput{Lo: "10", Hi: "30"} }

func RangeInputFromFields(f Fields) RangeInput {
	d := DefaultRangeInput()
	return RangeInput{Lo: f.Get("lo", d.Lo), Hi: f.Get("hi", d.Hi)}
}

// PrimeRange lists the primes between two bounds in either order.
func PrimeRange(ctx context.Context, in RangeInput, opts Options) Page[calc.RangeResult] {
	lo, hi, err := numparse.IntRange(in.Lo, in.Hi)
	if err != nil {
		return invalid[calc.RangeResult](err)
	}
	r, err := calc.PrimesInRange(ctx, lo, hi, opts.Calc)
	if err != nil {
		return failed[calc.RangeResult](fmt.Errorf("sieve [%d, %d] stopped: %w", lo, hi, err))
	}

	trace := steps.New()
	calc.TracePrimeRange(trace, r)
	return Page[calc.RangeResult]{
		Result: &r,
		Display: map[string]string{
			"count":     strconv.Itoa(len(r.Primes)),
			"firstLast": r.FirstLastText(),
			"list":      r.ListText(),
		},
		Steps: trace,
	}
}
