package calculator

// Input bounds accepted by the calculator.
const (
	MinTanks      = 1
	MaxTanks      = 100_000
	MinInflowRate = 1
	MaxInflowRate = 100_000
	MinCapacity   = 1
	MaxCapacity   = 1_000_000_000
)

// TankSystem describes a linear cascade of tanks fed by a uniform inflow.
// Capacities[0] is the tank closest to the source and the last element is the
// tank that overflows into containment.
type TankSystem struct {
	TankCount  int
	InflowRate int64
	Capacities []int64
}

// Result holds the floored incident timings, in seconds.
// SpillTime is not guaranteed to be less than or equal to FullTime.
type Result struct {
	SpillTime int64
	FullTime  int64
}

// Calculator describes the behaviour required from a tank cascade calculator.
type Calculator interface {
	Timings(system TankSystem) (Result, error)
}
