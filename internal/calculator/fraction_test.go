package calculator

import (
	"math/big"
	"testing"
)

func TestFractionCmp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Fraction
		want int
	}{
		{name: "Less", a: Fraction{1, 3}, b: Fraction{1, 2}, want: -1},
		{name: "Greater", a: Fraction{2, 3}, b: Fraction{1, 2}, want: 1},
		{name: "EqualDifferentTerms", a: Fraction{2, 4}, b: Fraction{1, 2}, want: 0},
		{name: "ZeroNumerator", a: Fraction{0, 1}, b: Fraction{1, 10_000_000_000}, want: -1},
		{
			name: "ProductsBeyond64Bits",
			a:    Fraction{Num: 100_000_000_000_000, Den: 10_000_000_000},
			b:    Fraction{Num: 99_999_999_999_999, Den: 9_999_999_999},
			want: -1,
		},
		{
			name: "EqualAtScale",
			a:    Fraction{Num: 100_000_000_000_000, Den: 10_000_000_000},
			b:    Fraction{Num: 50_000_000_000_000, Den: 5_000_000_000},
			want: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.a.Cmp(tc.b); got != tc.want {
				t.Fatalf("Cmp(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Cmp(tc.a); got != -tc.want {
				t.Fatalf("Cmp(%v, %v) = %d, want %d", tc.b, tc.a, got, -tc.want)
			}
			want := ratOf(tc.a).Cmp(ratOf(tc.b))
			if want != tc.want {
				t.Fatalf("big.Rat disagrees: %d", want)
			}
		})
	}
}

func TestFractionFloor(t *testing.T) {
	t.Parallel()

	cases := map[Fraction]int64{
		{Num: 7, Den: 2}:                            3,
		{Num: 0, Den: 5}:                            0,
		{Num: 1, Den: 100_000}:                      0,
		{Num: 100_000_000_000_000, Den: 10_000_000}: 10_000_000,
	}
	for f, want := range cases {
		if got := f.Floor(); got != want {
			t.Fatalf("Floor(%v) = %d, want %d", f, got, want)
		}
	}
}

func ratOf(f Fraction) *big.Rat {
	return new(big.Rat).SetFrac(new(big.Int).SetUint64(f.Num), new(big.Int).SetUint64(f.Den))
}
