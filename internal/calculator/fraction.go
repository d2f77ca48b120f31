package calculator

import "math/bits"

// Fraction is a non-negative rational Num/Den with Den > 0.
type Fraction struct {
	Num uint64
	Den uint64
}

// Cmp compares f and g without dividing. It returns -1, 0 or +1.
//
// Numerators reach ~1e14 and denominators ~1e10, so the cross products
// (~1e24) do not fit in 64 bits and are compared as 128-bit values.
func (f Fraction) Cmp(g Fraction) int {
	lhsHi, lhsLo := bits.Mul64(f.Num, g.Den)
	rhsHi, rhsLo := bits.Mul64(g.Num, f.Den)

	switch {
	case lhsHi < rhsHi:
		return -1
	case lhsHi > rhsHi:
		return 1
	case lhsLo < rhsLo:
		return -1
	case lhsLo > rhsLo:
		return 1
	default:
		return 0
	}
}

// Floor returns the greatest integer not exceeding f.
func (f Fraction) Floor() int64 {
	return int64(f.Num / f.Den)
}
