package safemath

import (
	"errors"
	"math/bits"
)

var ErrOverflow = errors.New("number overflow")

func Add64(a, b uint64) (uint64, bool) {
	v, carry := bits.Add64(a, b, 0)
	return v, carry == 0
}

func Sub64(a, b uint64) (uint64, bool) {
	v, borrow := bits.Sub64(a, b, 0)
	return v, borrow == 0
}

func Mul64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// Percent computes amount*rate/100 without intermediate overflow. Rates are
// capped at 100 by the parameter store, so the quotient always fits back
// into 64 bits.
func Percent(amount, rate uint64) (uint64, bool) {
	hi, lo := bits.Mul64(amount, rate)
	if hi >= 100 {
		return 0, false
	}
	quo, _ := bits.Div64(hi, lo, 100)
	return quo, true
}
