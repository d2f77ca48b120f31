package validation

import (
	"strconv"

	"go.uber.org/multierr"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
)

// ParseTokens converts raw whitespace-separated tokens (tank count, inflow
// rate, then the capacities) into a TankSystem. All parse, range and
// cardinality violations are returned together as an *Error.
func ParseTokens(tokens []string) (calculator.TankSystem, error) {
	if len(tokens) < 2 {
		return calculator.TankSystem{}, aggregate(ErrMissingHeader)
	}

	var errs error
	tankCount, countErr := parseInt("tankCount", tokens[0])
	errs = multierr.Append(errs, countErr)
	inflowRate, rateErr := parseInt("inflowRate", tokens[1])
	errs = multierr.Append(errs, rateErr)

	if countErr == nil {
		errs = multierr.Append(errs, checkRange("tankCount", tankCount, calculator.MinTanks, calculator.MaxTanks))
	}
	if rateErr == nil {
		errs = multierr.Append(errs, checkRange("inflowRate", inflowRate, calculator.MinInflowRate, calculator.MaxInflowRate))
	}

	raw := tokens[2:]
	if countErr == nil && int64(len(raw)) != tankCount {
		errs = multierr.Append(errs, &calculator.CardinalityError{Expected: int(tankCount), Got: len(raw)})
	}

	capacities := make([]int64, 0, len(raw))
	for i, token := range raw {
		field := calculator.CapacityField(i)
		value, err := parseInt(field, token)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, checkRange(field, value, calculator.MinCapacity, calculator.MaxCapacity))
		capacities = append(capacities, value)
	}

	if errs != nil {
		return calculator.TankSystem{}, aggregate(errs)
	}

	return calculator.TankSystem{
		TankCount:  int(tankCount),
		InflowRate: inflowRate,
		Capacities: capacities,
	}, nil
}

// Validate range-checks an already typed TankSystem, collecting every violation.
func Validate(system calculator.TankSystem) error {
	var errs error
	errs = multierr.Append(errs, checkRange("tankCount", int64(system.TankCount), calculator.MinTanks, calculator.MaxTanks))
	errs = multierr.Append(errs, checkRange("inflowRate", system.InflowRate, calculator.MinInflowRate, calculator.MaxInflowRate))
	if len(system.Capacities) != system.TankCount {
		errs = multierr.Append(errs, &calculator.CardinalityError{Expected: system.TankCount, Got: len(system.Capacities)})
	}
	for i, c := range system.Capacities {
		errs = multierr.Append(errs, checkRange(calculator.CapacityField(i), c, calculator.MinCapacity, calculator.MaxCapacity))
	}
	return aggregate(errs)
}

func parseInt(field, token string) (int64, error) {
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Token: token}
	}
	return value, nil
}

func checkRange(field string, value, lo, hi int64) error {
	if value < lo || value > hi {
		return &calculator.RangeError{Field: field, Value: value, Min: lo, Max: hi}
	}
	return nil
}
