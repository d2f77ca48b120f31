package calculator

type cascadeCalculator struct{}

// New creates a Calculator that evaluates both timings with exact rational scans.
func New() Calculator {
	return &cascadeCalculator{}
}

func (c *cascadeCalculator) Timings(system TankSystem) (Result, error) {
	return Compute(system.TankCount, system.InflowRate, system.Capacities)
}

// Compute checks the input and returns the spill and full timings. The first
// violation found is returned and wraps ErrInvalidArgument.
func Compute(tankCount int, inflowRate int64, capacities []int64) (Result, error) {
	if err := check(tankCount, inflowRate, capacities); err != nil {
		return Result{}, err
	}

	return Result{
		SpillTime: SpillTime(tankCount, inflowRate, capacities),
		FullTime:  FullTime(tankCount, inflowRate, capacities),
	}, nil
}

// SpillTime returns the floored time at which the last tank starts overflowing:
// the minimum over suffix windows of sum(window) / (len(window) * inflowRate).
// It does not check its input: a tank count below one divides by zero and
// fewer capacities than tankCount index out of range, both of which panic.
// Use Compute for unchecked input.
func SpillTime(tankCount int, inflowRate int64, capacities []int64) int64 {
	var (
		sumTail uint64
		best    Fraction
	)
	for l := 1; l <= tankCount; l++ {
		sumTail += uint64(capacities[tankCount-l])
		candidate := Fraction{Num: sumTail, Den: uint64(l) * uint64(inflowRate)}
		if l == 1 || candidate.Cmp(best) < 0 {
			best = candidate
		}
	}
	return best.Floor()
}

// FullTime returns the floored time at which every tank is full: the maximum
// over prefix windows of sum(window) / (len(window) * inflowRate).
// It does not check its input: fewer capacities than tankCount panics with an
// index out of range, and a zero inflow rate with a division by zero.
// Use Compute for unchecked input.
func FullTime(tankCount int, inflowRate int64, capacities []int64) int64 {
	var sumHead uint64
	best := Fraction{Num: 0, Den: 1}
	for i := 1; i <= tankCount; i++ {
		sumHead += uint64(capacities[i-1])
		candidate := Fraction{Num: sumHead, Den: uint64(i) * uint64(inflowRate)}
		if candidate.Cmp(best) > 0 {
			best = candidate
		}
	}
	return best.Floor()
}

func check(tankCount int, inflowRate int64, capacities []int64) error {
	if tankCount < MinTanks || tankCount > MaxTanks {
		return &RangeError{Field: "tankCount", Value: int64(tankCount), Min: MinTanks, Max: MaxTanks}
	}
	if inflowRate < MinInflowRate || inflowRate > MaxInflowRate {
		return &RangeError{Field: "inflowRate", Value: inflowRate, Min: MinInflowRate, Max: MaxInflowRate}
	}
	if len(capacities) != tankCount {
		return &CardinalityError{Expected: tankCount, Got: len(capacities)}
	}
	for i, c := range capacities {
		if c < MinCapacity || c > MaxCapacity {
			return &RangeError{Field: CapacityField(i), Value: c, Min: MinCapacity, Max: MaxCapacity}
		}
	}
	return nil
}
